package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/communitybridge/helpdesk-service/internal/service"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

func TestAssignmentErrorCarriesEligibilityCode(t *testing.T) {
	for _, message := range []string{
		apperrors.MsgNoTechnicians,
		apperrors.MsgNoSuitable,
		apperrors.MsgNoSuperAdmin,
	} {
		t.Run(message, func(t *testing.T) {
			err := assignmentError(service.AssignResult{Message: message})

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			require.Equal(t, apperrors.CodeNoEligible, domainErr.Code)
			require.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
			require.Equal(t, message, domainErr.Details["reason"])
		})
	}
}

func TestAssignmentErrorUpdateFailure(t *testing.T) {
	err := assignmentError(service.AssignResult{Message: apperrors.MsgUpdateFailed})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, apperrors.CodeStoreUnavailable, domainErr.Code)
	require.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	require.Equal(t, apperrors.MsgUpdateFailed, domainErr.Message)
}
