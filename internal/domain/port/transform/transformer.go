package transform

import (
	"github.com/ama3it/image-workers-backend/internal/domain/entity"
)

// Result is the output of a transformation: the processed bytes plus the file
// name the output should be stored under (derived from the source name).
type Result struct {
	FileName string
	Data     []byte
}

// Transformer dispatches an image's bytes to the pure transform selected by
// job type. Implementations must be safe for concurrent use.
type Transformer interface {
	// Apply runs the transformation for jobType against data read from
	// sourcePath.
	//
	// Possible errors:
	// - ErrUnsupportedJobType: terminal, the job type has no transform
	// - decode/encode errors: the payload is not a processable image
	Apply(jobType entity.JobType, sourcePath string, data []byte) (*Result, error)
}
