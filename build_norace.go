//go:build !race

package metricsplot

const raceBuild = false
