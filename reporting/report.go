package reporting

import (
	"errors"
	"fmt"
	"html/template"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	htmlTempl "github.com/activecm/xrootd-monitor/reporting/templates"
	"github.com/activecm/xrootd-monitor/util"
	"github.com/skratchdot/open-golang/open"
)

// updatedFormat is how acquisition times are shown in reports
const updatedFormat = "2006-01-02 15:04 MST"

// PrintHTML writes one page per instance showing the instance's latest
// plot and details, plus a home page linking them. The report goes into
// outFolder, or a folder named after the instance (`xrootd-html-report`
// for several instances) in the current working directory. A counter is
// appended while the folder already exists. The report's location is
// returned.
func PrintHTML(instances []string, outFolder string, repo xrootd.Repository,
	archive *acquisition.Archive, openReport bool) (string, error) {
	if len(instances) == 0 {
		return "", errors.New("no instances to report on")
	}

	if outFolder == "" {
		if len(instances) == 1 {
			outFolder = instances[0]
		} else {
			outFolder = "xrootd-html-report"
		}
	}
	outFolder = nextFreeFolder(outFolder)

	if err := os.MkdirAll(outFolder, 0755); err != nil {
		return "", err
	}

	var links []htmlTempl.InstanceLink
	for _, instance := range instances {
		fmt.Println("[-] Writing: " + filepath.Join(outFolder, instance))
		link, err := writeInstance(outFolder, instance, repo, archive)
		if err != nil {
			return "", err
		}
		links = append(links, link)
	}

	if err := writeHomePage(outFolder, links); err != nil {
		return "", err
	}

	fmt.Println("[-] Wrote outputs, check " + outFolder + " for files")
	if openReport {
		open.Run(filepath.Join(outFolder, "index.html"))
	}
	return outFolder, nil
}

//nextFreeFolder appends the next counter to folder while it exists
func nextFreeFolder(folder string) string {
	candidate := folder
	for counter := 1; ; counter++ {
		if exists, err := util.Exists(candidate); !exists || err != nil {
			return candidate
		}
		candidate = folder + strconv.Itoa(counter)
	}
}

func writeHomePage(outFolder string, links []htmlTempl.InstanceLink) error {
	f, err := os.Create(filepath.Join(outFolder, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()

	err = ioutil.WriteFile(filepath.Join(outFolder, "style.css"), htmlTempl.CSStempl, 0644)
	if err != nil {
		return err
	}

	out, err := template.New("home.html").Parse(htmlTempl.Hometempl)
	if err != nil {
		return err
	}
	return out.Execute(f, links)
}
