package usecase

import "github.com/junglesafari/safaridesk/pkg/domain/model"

// BuildComplaintMessageBlocks is exported for testing
var BuildComplaintMessageBlocks = buildComplaintMessageBlocks

// Type aliases for testing
type Complaint = model.Complaint
