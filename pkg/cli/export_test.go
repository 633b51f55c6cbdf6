package cli

var (
	PrintAttributes = printAttributes
	GetIndexConfig  = getIndexConfig
)
