//go:build race

package metricsplot

const raceBuild = true
