package transport

import (
	"html/template"
	"time"

	"github.com/rpggio/taskboard/internal/domain/task"
)

var templateFuncs = template.FuncMap{
	"when": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Local().Format(task.CompletionLayout)
	},
	"stamp": func(t time.Time) string {
		return t.Local().Format(task.CompletionLayout)
	},
}

const pagesHTML = `
{{define "head"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: auto; padding: 20px; }
table { border-collapse: collapse; width: 100%; margin-bottom: 20px; }
th, td { border: 1px solid #ddd; text-align: left; padding: 8px; }
tr:nth-child(even) { background: #f4f4f4; }
.done { text-decoration: line-through; color: #888; }
form { margin-bottom: 16px; }
input[type="text"] { padding: 6px; }
.actions a { margin-right: 8px; }
.activity { color: #555; font-size: 0.9em; }
</style>
</head>
<body>{{end}}

{{define "foot"}}
</body>
</html>{{end}}

{{define "index"}}{{template "head" "Tasks"}}
<h1>Tasks</h1>

<form action="/add" method="post">
  <input type="text" name="project" placeholder="Project">
  <input type="text" name="sub_line" placeholder="Sub line">
  <input type="text" name="task_name" placeholder="New task" required>
  <button type="submit">Add</button>
</form>

<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".xlsx">
  <button type="submit">Import</button>
  <a href="/download">Download tasks.xlsx</a>
</form>

<table>
  <tr>
    <th>Project</th>
    <th>Sub Line</th>
    <th>Task</th>
    <th>Status</th>
    <th>QR</th>
    <th>Actions</th>
  </tr>
  {{range .Tasks}}
  <tr>
    <td>{{.Project}}</td>
    <td>{{.SubLine}}</td>
    <td{{if .Completed}} class="done"{{end}}>{{.Name}}</td>
    <td>{{if .Completed}}Completed at: {{when .CompletionTime}}{{else}}Pending{{end}}</td>
    <td><img src="/qr/{{.ID}}" alt="QR code for task {{.ID}}" width="100" height="100"></td>
    <td class="actions">
      <a href="/edit/{{.ID}}">Edit</a>
      <a href="/delete/{{.ID}}" onclick="return confirm('Are you sure?');">Delete</a>
    </td>
  </tr>
  {{else}}
  <tr><td colspan="6">No tasks yet.</td></tr>
  {{end}}
</table>

{{if .Activity}}
<h2>Recent activity</h2>
<ul class="activity">
  {{range .Activity}}<li>{{stamp .CreatedAt}} {{.Summary}}</li>
  {{end}}
</ul>
{{end}}
{{template "foot"}}{{end}}

{{define "edit"}}{{template "head" "Edit task"}}
<h1>Edit task</h1>
<form method="post">
  <p><label>Project <input type="text" name="project" value="{{.Project}}"></label></p>
  <p><label>Sub line <input type="text" name="sub_line" value="{{.SubLine}}"></label></p>
  <p><label>Task <input type="text" name="task_name" value="{{.Name}}" required></label></p>
  <button type="submit">Update</button>
</form>
<a href="/">Cancel</a>
{{template "foot"}}{{end}}

{{define "confirmed"}}{{template "head" "Task confirmed"}}
<h1>Task '{{.Task.Name}}' confirmed!</h1>
<p>Completed at {{when .Task.CompletionTime}}</p>
<p><a href="/">Back to list</a></p>
{{template "foot"}}{{end}}
`
