package bot

import "errors"

// One sentinel per pipeline stage; every failure is fatal for the run.
var (
	ErrNoMessageEvent    = errors.New("no message event in webhook payload")
	ErrMissingReplyToken = errors.New("missing reply token")
	ErrClassification    = errors.New("classification failed")
	ErrGeneration        = errors.New("generation failed")
	ErrImageDecode       = errors.New("image decode failed")
	ErrUpload            = errors.New("image upload failed")
	ErrDelivery          = errors.New("reply delivery failed")
	ErrPersistence       = errors.New("history persistence failed")
)
