package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/activecm/xrootd-monitor/reporting/templates"
)

var detailFuncs = template.FuncMap{
	"sub": func(a, b float64) float64 { return a - b },
}

func writeInstance(outFolder string, instance string, repo xrootd.Repository,
	archive *acquisition.Archive) (templates.InstanceLink, error) {
	link := templates.InstanceLink{Instance: instance, TierName: "-", Updated: "never"}

	dir := filepath.Join(outFolder, instance)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return link, err
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return link, err
	}
	defer f.Close()

	dataset, err := repo.LatestDataset(instance)
	if err == xrootd.ErrNotFound {
		out, err := template.New("empty.html").Parse(templates.InstanceEmptyTempl)
		if err != nil {
			return link, err
		}
		return link, out.Execute(f, &templates.ReportingInfo{Instance: instance})
	} else if err != nil {
		return link, err
	}
	link.TierName = dataset.TierName
	link.Updated = dataset.Time.Format(updatedFormat)

	plotSrc := archive.Locate(dataset.Time, dataset.RunID, dataset.FilenamePlot)
	if err := copyFile(plotSrc, filepath.Join(dir, dataset.FilenamePlot)); err != nil {
		fmt.Printf("[!] Plot of %s is missing: %s\n", instance, err.Error())
	}

	data, err := xrootd.TemplateData(repo, dataset, map[string]interface{}{
		"Instance": instance,
		"Plot":     dataset.FilenamePlot,
		"Updated":  link.Updated,
	})
	if err != nil {
		return link, err
	}

	w, err := getDetailsWriter(data["details"].([]map[string]interface{}))
	if err != nil {
		return link, err
	}
	data["Writer"] = template.HTML(w)

	out, err := template.New("instance.html").Parse(templates.InstanceTempl)
	if err != nil {
		return link, err
	}
	return link, out.Execute(f, data)
}

func getDetailsWriter(details []map[string]interface{}) (string, error) {
	tmpl := "<tr><td>{{.date}}</td><td>{{printf \"%.0f\" .plot_data_active}}</td><td>{{printf \"%.0f\" .plot_data_finished}}</td>"
	tmpl += "<td>{{printf \"%.0f\" (sub .plot_data_active .plot_data_finished)}}</td><td>{{printf \"%.3f\" .plot_data}}</td></tr>\n"

	out, err := template.New("details").Funcs(detailFuncs).Parse(tmpl)
	if err != nil {
		return "", err
	}

	w := new(bytes.Buffer)

	for _, result := range details {
		err = out.Execute(w, result)
		if err != nil {
			return "", err
		}
	}

	return w.String(), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
