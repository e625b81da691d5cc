package xrootd

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/activecm/xrootd-monitor/pkg/plot"
)

const (
	startTimeLayout = "2006-01-02T15:04:05"
	//DateLayout is how bin dates are stored
	DateLayout = "2006-01-02 15:04"
)

//ErrDivisionByZero is returned for bins without active transfers or active time
var ErrDivisionByZero = errors.New("division by zero")

//Detail is the per bin record stored below a dataset
type Detail struct {
	Date     string  `bson:"date" json:"date"`
	Rate     float64 `bson:"plot_data" json:"plot_data"`
	Active   float64 `bson:"plot_data_active" json:"plot_data_active"`
	Finished float64 `bson:"plot_data_finished" json:"plot_data_finished"`
}

//Running is the number of transfers still in progress at the end of the bin
func (d Detail) Running() float64 {
	return d.Active - d.Finished
}

//Map converts the detail into template friendly key/value pairs
func (d Detail) Map() map[string]interface{} {
	return map[string]interface{}{
		"date":               d.Date,
		"plot_data":          d.Rate,
		"plot_data_active":   d.Active,
		"plot_data_finished": d.Finished,
	}
}

//Extract builds the details of the first group named tier. A tier that
//is not in the snapshot yields no details.
func Extract(snap *Snapshot, tier string) ([]Detail, error) {
	details := []Detail{}
	for _, group := range snap.Transfers {
		if group.Name != tier {
			continue
		}
		for _, bin := range group.Bins {
			detail, err := extractBin(bin)
			if err != nil {
				return nil, fmt.Errorf("tier %s: %w", tier, err)
			}
			details = append(details, detail)
		}
		break
	}
	SortDetails(details)
	return details, nil
}

func extractBin(bin TransferBin) (Detail, error) {
	start, err := time.Parse(startTimeLayout, bin.StartTime)
	if err != nil {
		return Detail{}, fmt.Errorf("invalid start time %q: %w", bin.StartTime, err)
	}
	if bin.Active == 0 || bin.ActiveTime == 0 {
		return Detail{}, fmt.Errorf("bin %s: %w", bin.StartTime, ErrDivisionByZero)
	}
	active := float64(bin.Active)
	finished := float64(bin.Finished)
	rate := finished / active * float64(bin.Bytes) / float64(bin.ActiveTime) / 1e6

	return Detail{
		Date:     start.Format(DateLayout),
		Rate:     rate,
		Active:   active,
		Finished: finished,
	}, nil
}

//SortDetails orders details by date. Details with the same date keep
//their relative order.
func SortDetails(details []Detail) {
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Date < details[j].Date
	})
}

//plotBins maps details onto chart positions
func plotBins(details []Detail) []plot.Bin {
	bins := make([]plot.Bin, len(details))
	for i, d := range details {
		bins[i] = plot.Bin{
			Label:    d.Date,
			Finished: d.Finished,
			Running:  d.Running(),
			Rate:     d.Rate,
		}
	}
	return bins
}
