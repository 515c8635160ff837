package gateway

import (
	"errors"
	"strings"

	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// ErrTargetExists is returned when a target with the same name is already
// attached to the gateway.
var ErrTargetExists = errors.New("gateway target already exists")

func isConflict(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if code == "ConflictException" || code == "AlreadyExistsException" {
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}

func isEntityExists(err error) bool {
	var exists *iamtypes.EntityAlreadyExistsException
	return errors.As(err, &exists)
}
