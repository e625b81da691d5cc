package xrootd

import "fmt"

//TemplateData re-reads the details of dataset and returns a copy of base
//with them under "details" and the dataset under "dataset"
func TemplateData(repo Repository, dataset *Dataset, base map[string]interface{}) (map[string]interface{}, error) {
	details, err := repo.FindDetails(dataset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load details of dataset %s: %w", dataset.ID, err)
	}
	SortDetails(details)

	rows := make([]map[string]interface{}, len(details))
	for i, d := range details {
		rows[i] = d.Map()
	}

	data := make(map[string]interface{}, len(base)+2)
	for k, v := range base {
		data[k] = v
	}
	data["details"] = rows
	data["dataset"] = dataset
	return data, nil
}
