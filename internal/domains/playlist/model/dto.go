package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"catalog-backend/internal/shared/optional"
)

const (
	MaxNameLength        = 150
	MaxDescriptionLength = 2000
)

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CreatePlaylistRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, notBlank, validation.Length(1, MaxNameLength)),
		validation.Field(&r.Description, validation.Required, notBlank, validation.Length(1, MaxDescriptionLength)),
	)
}

// UpdatePlaylistRequest - ít nhất một field phải được set; name nếu set thì không rỗng
type UpdatePlaylistRequest struct {
	Name        optional.Value[string] `json:"name"`
	Description optional.Value[string] `json:"description"`
}

func (r UpdatePlaylistRequest) Validate() error {
	if !r.Name.IsSet() && !r.Description.IsSet() {
		return ErrNoUpdateFields
	}

	errs := validation.Errors{}
	if name, ok := r.Name.Get(); ok {
		errs["name"] = validation.Validate(name, notBlank, validation.Length(1, MaxNameLength))
	}
	if description, ok := r.Description.Get(); ok {
		errs["description"] = validation.Validate(description, validation.Length(0, MaxDescriptionLength))
	}
	return errs.Filter()
}

func (r UpdatePlaylistRequest) Apply(p *Playlist) {
	r.Name.Apply(&p.Name)
	r.Description.Apply(&p.Description)
}

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})
