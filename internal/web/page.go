package web

import (
	"html/template"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/display"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

type pageData struct {
	Snapshot         controller.Snapshot
	Reference        *pricing.Reference
	InstanceTypes    []string
	OperatingSystems []string
	EBSVolumeTypes   []string
	Notice           string
}

func newPageData(snap controller.Snapshot, ref *pricing.Reference, notice string) pageData {
	return pageData{
		Snapshot:         snap,
		Reference:        ref,
		InstanceTypes:    models.InstanceTypes,
		OperatingSystems: models.OperatingSystems,
		EBSVolumeTypes:   models.EBSVolumeTypes,
		Notice:           notice,
	}
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"usd":    display.FormatUSD,
	"memory": display.FormatMemory,
	"idleHint": func() string {
		return display.IdleHint
	},
	"loadingMessage": func() string {
		return display.LoadingMessage
	},
	"disclaimer": func() string {
		return display.Disclaimer
	},
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    {{- if eq .Snapshot.State.String "loading"}}
    <meta http-equiv="refresh" content="2">
    {{- end}}
    <title>AWS EC2 Cost Estimator</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background: #0f172a; color: #e2e8f0; margin: 0; padding: 32px; }
        .container { max-width: 1100px; margin: 0 auto; display: grid; grid-template-columns: 1fr 1fr; gap: 24px; }
        .card { background: #1e293b; border-radius: 8px; padding: 24px; }
        h1 { text-align: center; color: #38bdf8; }
        label { display: block; margin-top: 16px; font-size: 0.9em; color: #94a3b8; }
        select, input { width: 100%; padding: 8px; margin-top: 4px; background: #0f172a; color: #e2e8f0; border: 1px solid #334155; border-radius: 4px; }
        button { margin-top: 24px; width: 100%; padding: 12px; background: #0284c7; color: white; border: 0; border-radius: 4px; font-size: 1em; }
        button:disabled { background: #475569; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 6px 0; }
        td.amount { text-align: right; }
        .total { font-size: 1.6em; color: #4ade80; }
        .error { color: #f87171; }
        .warning { color: #facc15; }
        .muted { color: #94a3b8; font-size: 0.85em; }
    </style>
</head>
<body>
<h1>AWS EC2 Cost Estimator</h1>
{{- if .Notice}}
<p class="warning">{{.Notice}}</p>
{{- end}}
<div class="container">
    <form class="card" method="post" action="/estimate">
        {{- $cfg := .Snapshot.Configuration}}
        {{- $disabled := not .Snapshot.InputsEnabled}}
        <label for="instanceType">Instance Type</label>
        <select id="instanceType" name="instanceType"{{if $disabled}} disabled{{end}}>
            <option value=""{{if eq $cfg.InstanceType ""}} selected{{end}}>-- Select an Instance --</option>
            {{- range .InstanceTypes}}
            <option value="{{.}}"{{if eq . $cfg.InstanceType}} selected{{end}}>{{.}}</option>
            {{- end}}
        </select>

        <label for="operatingSystem">Operating System</label>
        <select id="operatingSystem" name="operatingSystem"{{if $disabled}} disabled{{end}}>
            {{- range .OperatingSystems}}
            <option value="{{.}}"{{if eq . $cfg.OperatingSystem}} selected{{end}}>{{.}}</option>
            {{- end}}
        </select>

        <label for="ebsVolumeType">EBS Volume Type</label>
        <select id="ebsVolumeType" name="ebsVolumeType"{{if $disabled}} disabled{{end}}>
            {{- range .EBSVolumeTypes}}
            <option value="{{.}}"{{if eq . $cfg.EBSVolumeType}} selected{{end}}>{{.}}</option>
            {{- end}}
        </select>

        <label for="ebsVolumeSizeGB">EBS Volume Size (GB)</label>
        <input id="ebsVolumeSizeGB" name="ebsVolumeSizeGB" type="number" min="1" value="{{$cfg.EBSVolumeSizeGB}}"{{if $disabled}} disabled{{end}}>

        <button type="submit"{{if $disabled}} disabled{{end}}>
            {{- if $disabled}}Estimating...{{else}}Get Estimate{{end -}}
        </button>
    </form>

    <div class="card" id="result">
        {{- with .Snapshot}}
        {{- if eq .State.String "loading"}}
        <p>⏳ {{loadingMessage}}</p>
        {{- else if eq .State.String "failed"}}
        <p class="error">❌ Error: {{.Error}}</p>
        {{- else if and (eq .State.String "succeeded") .Result}}
        {{- $r := .Result}}
        <h2>{{$r.InstanceType}}</h2>
        <p>{{$r.VCPU}} vCPU · {{memory $r.Memory}} · {{$r.OperatingSystem}} · {{$r.EBSVolumeSizeGB}}GB {{$r.EBSVolumeType}}</p>
        <table>
            <tr><td>EC2 Instance</td><td class="amount">{{usd $r.InstanceCostUSD}}</td></tr>
            <tr><td>Operating System</td><td class="amount">{{usd $r.OSCostUSD}}</td></tr>
            <tr><td>EBS Volume</td><td class="amount">{{usd $r.EBSCostUSD}}</td></tr>
        </table>
        <p>Total Estimated Monthly Cost</p>
        <p class="total">{{usd $r.TotalMonthlyCostUSD}}</p>
        {{- if not $r.BreakdownConsistent}}
        <p class="warning">The components do not add up to the total.</p>
        {{- end}}
        {{- else}}
        <p>{{idleHint}}</p>
        {{- end}}
        {{- end}}
        {{- with .Reference}}
        {{- if .Err}}
        <p class="muted">AWS list price reference unavailable.</p>
        {{- else}}
        <p class="muted">AWS list price reference: {{usd .MonthlyTotalUSD}}</p>
        {{- end}}
        {{- end}}
        <p class="muted">{{disclaimer}}</p>
    </div>
</div>
</body>
</html>
`
