//go:build !debug

package metricsplot

const debugBuild = false
