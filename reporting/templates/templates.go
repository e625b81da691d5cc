package templates

import "html/template"

//ReportingInfo fills the instance page templates
type ReportingInfo struct {
	Instance string
	Writer   template.HTML
}

//InstanceLink is one entry of the report's home page
type InstanceLink struct {
	Instance string
	TierName string
	Updated  string
}

var instanceHeader = `
<head>
<meta content="text/html;charset=utf-8" http-equiv="Content-Type">
<meta content="utf-8" http-equiv="encoding">
<link rel="stylesheet" type="text/css" href="../style.css">
<title>{{.Instance}} - XRootD Monitor</title>
</head>

<ul>
  <li><a href="../index.html">XRootD Monitor</a></li>
  <li><a href="index.html">Viewing: {{.Instance}}</a></li>
</ul>
`

var homeHeader = `
<head>
<meta content="text/html;charset=utf-8" http-equiv="Content-Type">
<meta content="utf-8" http-equiv="encoding">
<link rel="stylesheet" type="text/css" href="./style.css">
<title>XRootD Monitor</title>
</head>
<ul>
  <li><a href="./index.html">XRootD Monitor</a></li>
</ul>
`

// Hometempl is our home template html
var Hometempl = homeHeader + `
<p>
  <div class="info">To view individual instances, click on any of the links below.</div>
  <div class="vertical-menu">
    {{range .}}
      <a href="{{.Instance}}/index.html">{{.Instance}} ({{.TierName}}, {{.Updated}})</a>
    {{end}}
  </div>
</p>
`

// InstanceTempl shows the latest plot and details of one instance
var InstanceTempl = instanceHeader + `
<div class="info">{{.dataset.TierName}}: {{.dataset.Attribute}}, acquired {{.Updated}} from {{.dataset.SourceURL}}</div>
<div class="plot">
  <img src="{{.Plot}}" alt="{{.dataset.TierName}}">
</div>
<div class="container">
  <table>
    <tr><th>Date</th><th>Active</th><th>Finished</th><th>Running</th><th>Rate (MB/s)</th></tr>
      {{.Writer}}
  </table>
</div>
`

// InstanceEmptyTempl is shown for instances without datasets
var InstanceEmptyTempl = instanceHeader + `
<p>
  <div class="info">No datasets have been acquired for {{.Instance}} yet.</div>
</p>
`
