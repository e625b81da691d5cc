package config

type (
	//TableCfg is the container for other table config sections
	TableCfg struct {
		Log    LogTableCfg
		XRootD XRootDTableCfg
	}

	//LogTableCfg contains the configuration for logging
	LogTableCfg struct {
		LogTable string `default:"logs"`
	}

	//XRootDTableCfg names the XRootD module's summary table and its subtable
	XRootDTableCfg struct {
		DatasetTable string `default:"mod_xrootd"`
		DetailsTable string `default:"sub_xrootd_details"`
	}
)
