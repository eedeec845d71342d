package models

import "time"

// AppliedResource is one record of applied state, keyed by stack (the primary
// queue name) and resource key.
type AppliedResource struct {
	Stack     string    `dynamodbav:"stack"`
	Key       string    `dynamodbav:"key"`
	Name      string    `dynamodbav:"name"`
	Url       string    `dynamodbav:"url,omitempty"`
	Arn       string    `dynamodbav:"arn,omitempty"`
	RunId     string    `dynamodbav:"run"`
	AppliedAt time.Time `dynamodbav:"ts,unixtime"`
}
