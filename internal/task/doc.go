// Package task implements the asynchronous job pipeline: the job
// payload handed from dispatcher to workers, the queue that carries
// it, the worker pool that consumes it, and the durable ledger that
// tracks every task from in-flight to solved or failed.
package task
