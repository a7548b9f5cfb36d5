package handlers

import "os"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GTMContainerID string // e.g. GTM-XXXXXXX
	Debug          bool
}

// LoadAnalyticsFromEnv builds Analytics from environment variables.
func LoadAnalyticsFromEnv() Analytics {
	return Analytics{
		GTMContainerID: os.Getenv("RH_GTM_CONTAINER_ID"),
		Debug:          os.Getenv("RH_ANALYTICS_DEBUG") != "",
	}
}
