package dto

// ResolveCharacterIDsInput represents the input for resolving several character names
type ResolveCharacterIDsInput struct {
	Names []string `query:"names,explode" required:"true" minItems:"1" maxItems:"250" validate:"required,min=1,max=250,dive,charname" doc:"Character names to resolve; repeat the parameter for each name" example:"CCP Garthagk"`
}

// ResolveCharacterIDInput represents the input for resolving a single character name
type ResolveCharacterIDInput struct {
	Name string `query:"name" required:"true" minLength:"3" maxLength:"37" validate:"required,charname" doc:"Character name to resolve" example:"CCP Garthagk"`
}

// GetCharacterInfoInput represents the input for getting a character's profile
type GetCharacterInfoInput struct {
	CharacterID int64 `path:"character_id" minimum:"1" validate:"required,gt=0" doc:"Character ID to retrieve information for" example:"1643072492"`
}

// ListAlliancesInput represents the input for listing all alliances (no parameters needed)
type ListAlliancesInput struct{}

// GetAllianceSnapshotInput represents the input for reading one stored alliance
type GetAllianceSnapshotInput struct {
	AllianceID int64 `path:"alliance_id" minimum:"1" validate:"required,gt=0" doc:"Alliance ID to retrieve from the last sync" example:"1758303571"`
}
