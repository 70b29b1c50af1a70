/*
Package observability provides tools for monitoring scene transitions.

It turns domain.LifecycleHooks into Prometheus metrics and structured log
lines, and combines several hook sets into one.
*/
package observability
