package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `taskboard keeps a registry of tasks grouped by project and sub line.

Model:
- Task: id, name, optional project and sub_line, status Pending or Completed.
- Completion is one-way. confirm_task stamps completion_time once; confirming again changes nothing.
- Ids are assigned by the server and never reused.

Workflow:
1) Browse with list_tasks (optionally status=pending|completed) or get_task.
2) Add work with create_task; rename or regroup with update_task.
3) Mark work done with confirm_task. The same happens when someone scans a task's QR code.
4) delete_task removes a task; deleting a missing task is not an error.
5) get_recent_activity shows what changed lately, newest first.

Errors carry a stable code prefix: TASK_NOT_FOUND, INVALID_INPUT.

Docs:
- taskboard://docs/index
- taskboard://docs/spreadsheets
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "taskboard://docs/index",
		Name:        "docs_index",
		Title:       "taskboard docs index",
		Description: "What the task tools do and how confirmation links work.",
		Content: `# taskboard

## Tools

- list_tasks: every task in id order. Filter with status=pending or status=completed.
- get_task: one task by id, including its confirmation_url when the server knows its public address.
- create_task: name is required; project and sub_line are optional labels.
- update_task: only the fields you pass change. Completion cannot be edited.
- confirm_task: marks a task completed. Idempotent.
- delete_task: idempotent.
- get_recent_activity: audit trail of creates, edits, confirmations, deletes and imports.

## Confirmation links

Each task has a link of the form <public_url>/confirm/<id>. The web UI prints it as a QR code.
Opening the link completes the task exactly like confirm_task.
`,
	},
	{
		URI:         "taskboard://docs/spreadsheets",
		Name:        "docs_spreadsheets",
		Title:       "Spreadsheet import and export",
		Description: "Workbook layout accepted by /upload and produced by /download.",
		Content: `# Spreadsheets

Export (/download) writes one sheet named Tasks:

| Project | Sub Line | Task | Status | Completion Time |

Status is Pending or Completed. Completion Time uses 2006-01-02 15:04:05 in server local time.

Import (/upload) reads the first sheet. The header row must contain Project, Sub Line and Task
(any order, any case). Status and Completion Time are optional; Completed rows keep their time.
Blank rows are skipped. Any bad row rejects the whole file and nothing is added.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
