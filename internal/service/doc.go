// Package service contains the application-level orchestration of the
// post pipeline: validating tagged users, dispatching submissions into
// the asynchronous job queue, processing queued jobs, and reporting
// task outcomes.
package service
