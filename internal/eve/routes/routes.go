package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-evelink/internal/eve/dto"
	"go-evelink/internal/eve/models"
	"go-evelink/internal/eve/services"
	"go-evelink/pkg/eveapi"
	"go-evelink/pkg/eveapi/eve"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
)

// Module represents the eve routes module
type Module struct {
	service *services.Service
}

// NewModule creates a new eve routes module
func NewModule(service *services.Service) *Module {
	return &Module{
		service: service,
	}
}

// RegisterUnifiedRoutes registers all eve routes with the provided Huma API
func (m *Module) RegisterUnifiedRoutes(api huma.API, basePath string) {
	huma.Register(api, huma.Operation{
		OperationID: "eve-character-ids",
		Method:      http.MethodGet,
		Path:        basePath + "/characters/ids",
		Summary:     "Resolve Character Names",
		Description: "Resolve up to 250 character names to character IDs in a single API call. Names that are not characters map to null; names the API does not mention are omitted.",
		Tags:        []string{"Characters"},
	}, m.resolveCharacterIDs)

	huma.Register(api, huma.Operation{
		OperationID: "eve-character-id",
		Method:      http.MethodGet,
		Path:        basePath + "/characters/id",
		Summary:     "Resolve Character Name",
		Description: "Resolve a single character name to its character ID.",
		Tags:        []string{"Characters"},
	}, m.resolveCharacterID)

	huma.Register(api, huma.Operation{
		OperationID: "eve-character-info",
		Method:      http.MethodGet,
		Path:        basePath + "/characters/{character_id}",
		Summary:     "Get Character Information",
		Description: "Retrieve the public profile and employment history of a character.",
		Tags:        []string{"Characters"},
	}, m.getCharacterInfo)

	huma.Register(api, huma.Operation{
		OperationID: "eve-alliances",
		Method:      http.MethodGet,
		Path:        basePath + "/alliances",
		Summary:     "List All Alliances",
		Description: "Retrieve every alliance with its member corporations, keyed by alliance ID.",
		Tags:        []string{"Alliances"},
	}, m.listAlliances)

	huma.Register(api, huma.Operation{
		OperationID: "eve-alliance-snapshot",
		Method:      http.MethodGet,
		Path:        basePath + "/alliances/{alliance_id}",
		Summary:     "Get Stored Alliance",
		Description: "Retrieve one alliance as stored by the last alliance sync. Requires MongoDB.",
		Tags:        []string{"Alliances"},
	}, m.getAllianceSnapshot)

	huma.Register(api, huma.Operation{
		OperationID: "eve-alliances-sync",
		Method:      http.MethodPost,
		Path:        basePath + "/alliances/sync",
		Summary:     "Sync Alliances",
		Description: "Fetch the alliance list now and replace the stored snapshot. Requires MongoDB.",
		Tags:        []string{"Alliances"},
	}, m.syncAlliances)

	huma.Register(api, huma.Operation{
		OperationID: "eve-get-status",
		Method:      http.MethodGet,
		Path:        basePath + "/status",
		Summary:     "Get eve module status",
		Description: "Returns the health status of the eve module",
		Tags:        []string{"Module Status"},
	}, func(ctx context.Context, input *struct{}) (*dto.StatusOutput, error) {
		status := m.service.GetStatus(ctx)
		return &dto.StatusOutput{Body: *status}, nil
	})
}

func (m *Module) resolveCharacterIDs(ctx context.Context, input *dto.ResolveCharacterIDsInput) (*dto.CharacterIDsOutput, error) {
	if err := dto.Validator().Struct(input); err != nil {
		return nil, validationError(err)
	}

	result, err := m.service.ResolveCharacterIDs(ctx, input.Names)
	if err != nil {
		return nil, toHumaError(err, "Failed to resolve character names")
	}
	return result, nil
}

func (m *Module) resolveCharacterID(ctx context.Context, input *dto.ResolveCharacterIDInput) (*dto.CharacterIDOutput, error) {
	if err := dto.Validator().Struct(input); err != nil {
		return nil, validationError(err)
	}

	result, err := m.service.ResolveCharacterID(ctx, input.Name)
	if err != nil {
		return nil, toHumaError(err, "Failed to resolve character name")
	}
	return result, nil
}

func (m *Module) getCharacterInfo(ctx context.Context, input *dto.GetCharacterInfoInput) (*dto.CharacterInfoOutput, error) {
	if input.CharacterID <= 0 {
		return nil, huma.Error400BadRequest("Character ID must be a positive integer")
	}

	result, err := m.service.GetCharacterInfo(ctx, input.CharacterID)
	if err != nil {
		return nil, toHumaError(err, fmt.Sprintf("Failed to retrieve character %d", input.CharacterID))
	}
	return result, nil
}

func (m *Module) listAlliances(ctx context.Context, input *dto.ListAlliancesInput) (*dto.AllianceDirectoryOutput, error) {
	result, err := m.service.ListAlliances(ctx)
	if err != nil {
		return nil, toHumaError(err, "Failed to retrieve alliances list")
	}
	return result, nil
}

func (m *Module) getAllianceSnapshot(ctx context.Context, input *dto.GetAllianceSnapshotInput) (*dto.AllianceSnapshotOutput, error) {
	if input.AllianceID <= 0 {
		return nil, huma.Error400BadRequest("Alliance ID must be a positive integer")
	}

	result, err := m.service.GetAllianceSnapshot(ctx, input.AllianceID)
	if err != nil {
		return nil, toHumaError(err, fmt.Sprintf("Failed to retrieve alliance %d", input.AllianceID))
	}
	return result, nil
}

func (m *Module) syncAlliances(ctx context.Context, input *struct{}) (*dto.SyncOutput, error) {
	result, err := m.service.SyncAlliances(ctx, models.TriggerManual)
	if err != nil {
		return nil, toHumaError(err, "Failed to sync alliances")
	}
	return result, nil
}

// validationError turns validator failures into a 422 listing each bad field
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return huma.Error422UnprocessableEntity("Invalid input", err)
	}

	details := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, &huma.ErrorDetail{
			Message:  fmt.Sprintf("failed %q validation", fe.Tag()),
			Location: fe.Namespace(),
			Value:    fe.Value(),
		})
	}
	return huma.Error422UnprocessableEntity("Invalid input", details...)
}

// toHumaError maps service and API errors onto HTTP statuses
func toHumaError(err error, msg string) error {
	var (
		apiErr    *eveapi.APIError
		statusErr *eveapi.StatusError
		parseErr  *eve.ParseError
	)

	switch {
	case errors.Is(err, services.ErrAllianceNotFound):
		return huma.Error404NotFound(msg, err)
	case errors.Is(err, services.ErrSnapshotsDisabled):
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.Is(err, services.ErrSyncInProgress):
		return huma.Error409Conflict(msg, err)
	case errors.As(err, &apiErr) && apiErr.NotFound():
		return huma.Error404NotFound(msg, err)
	case errors.As(err, &apiErr), errors.As(err, &statusErr), errors.As(err, &parseErr):
		return huma.Error502BadGateway(msg, err)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout(msg, err)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}
