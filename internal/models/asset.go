package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Asset (vault item) types.
const (
	AssetPassword   = "password"
	AssetLink       = "link"
	AssetCredential = "credential"
	AssetNote       = "note"
)

var assetTypes = []any{AssetPassword, AssetLink, AssetCredential, AssetNote}

// Asset is a vault item. Password is stored and returned as plain text.
type Asset struct {
	Meta
	Name     string `json:"name"`
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category"`
}

// AssetInput is the body of POST /assets.
type AssetInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

func (in *AssetInput) Validate() error {
	if in.Category == "" {
		in.Category = "general"
	}
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Type, validation.Required, validation.In(assetTypes...)),
		validation.Field(&in.URL, validation.When(in.Type == AssetLink, validation.Required), is.URL),
		validation.Field(&in.Category, validation.Length(1, 100)),
	)
}

func (in AssetInput) Asset() Asset {
	return Asset{
		Name:     in.Name,
		Type:     in.Type,
		Username: in.Username,
		Password: in.Password,
		URL:      in.URL,
		Category: in.Category,
	}
}

// AssetPatch is the body of PUT /assets/{id}.
type AssetPatch struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	URL      *string `json:"url"`
	Category *string `json:"category"`
}

func (p *AssetPatch) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Type, validation.NilOrNotEmpty, validation.In(assetTypes...)),
		validation.Field(&p.URL, is.URL),
		validation.Field(&p.Category, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (p AssetPatch) Apply(a *Asset) {
	setIf(&a.Name, p.Name)
	setIf(&a.Type, p.Type)
	setIf(&a.Username, p.Username)
	setIf(&a.Password, p.Password)
	setIf(&a.URL, p.URL)
	setIf(&a.Category, p.Category)
}

// Validate checks invariants that span fields after a patch was applied.
func (a *Asset) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.URL, validation.When(a.Type == AssetLink, validation.Required)),
	)
}
