package analysis

// Failed exposes the failure shape to tests.
var Failed = failed
