package gologger

import (
	"github.com/goliatone/go-bridgeauth/core"

	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

const JobLoggerName = "bridgeauth.jobs"

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// ResolveForJob returns the go-job view of the resolved logger pair, for
// wiring a go-job worker that runs post-login syncs.
func ResolveForJob(provider glog.LoggerProvider, logger glog.Logger) (job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := Resolve(JobLoggerName, provider, logger)
	var jobProvider job.LoggerProvider
	if resolvedProvider != nil {
		jobProvider = job.GoLoggerProvider(resolvedProvider)
	}
	var jobLogger job.Logger
	if resolvedLogger != nil {
		jobLogger = job.GoLogger(resolvedLogger)
	}
	return jobProvider, jobLogger
}

// NewJobHook returns a worker hook that logs post-login job outcomes through
// the resolved glog logger.
func NewJobHook(provider glog.LoggerProvider, logger glog.Logger) core.LoggingJobHook {
	_, resolved := Resolve(JobLoggerName, provider, logger)
	return core.LoggingJobHook{Logger: glog.Ensure(resolved)}
}
