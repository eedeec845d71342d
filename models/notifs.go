package models

const AlertTitle = "qpair Alert"

const (
	AlertDesc_ApplyFailed   = "Apply Failed"
	AlertDesc_DestroyFailed = "Destroy Failed"
)

const (
	AlertFmt_ApplyFailed   string = "stack %s:\n%v"
	AlertFmt_DestroyFailed string = "stack %s:\n%v"
)
