package xrootd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	//Snapshot is the transfer statistics document served by the monitor
	Snapshot struct {
		Transfers []TransferGroup `json:"transfers"`
	}

	//TransferGroup holds the bins of one tier
	TransferGroup struct {
		Name string        `json:"name"`
		Bins []TransferBin `json:"bins"`
	}

	//TransferBin aggregates the transfers of one time window
	TransferBin struct {
		StartTime  string  `json:"start_time"`
		Active     Numeric `json:"active"`
		Finished   Numeric `json:"finished"`
		Bytes      Numeric `json:"bytes"`
		ActiveTime Numeric `json:"active_time"`
	}

	//Numeric is a JSON number that may also be sent as a numeric string
	Numeric float64
)

//UnmarshalJSON accepts 4, 4.5 and "4"
func (n *Numeric) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return fmt.Errorf("expected a number, got null")
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %s", string(data))
	}
	*n = Numeric(v)
	return nil
}

//ParseSnapshot decodes a snapshot document
func ParseSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

//LoadSnapshot decodes the snapshot document stored at path
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSnapshot(f)
}
