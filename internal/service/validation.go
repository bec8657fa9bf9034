package service

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"notestore/internal/config"
	"notestore/internal/domain"
	"notestore/internal/domain/models"
	"notestore/internal/domain/services"
)

var noSlashes = regexp.MustCompile(`^[^/]+$`)

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(1, config.MaxNodeNameLength),
		validation.Match(noSlashes).Error("cannot contain slashes"),
	}
}

// validateName validates an already trimmed node name
func validateName(name string) error {
	if err := validation.Validate(name, nameRules()...); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("name: %v", err)}
	}
	return nil
}

// validateCreateRequest validates a creation request; name must already be trimmed
func validateCreateRequest(req *services.CreateNodeRequest, kind models.NodeKind) error {
	rules := []*validation.FieldRules{
		validation.Field(&req.Name, nameRules()...),
	}
	if kind == models.KindFolder {
		rules = append(rules,
			validation.Field(&req.Content, validation.Nil.Error("folders cannot have content")),
			validation.Field(&req.Mime, validation.Empty.Error("folders cannot have a mime type")),
		)
	} else {
		rules = append(rules, validation.Field(&req.Mime, validation.RuneLength(0, 255)))
	}

	if err := validation.ValidateStruct(req, rules...); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// validateContent enforces the file size cap
func validateContent(content string) error {
	if len(content) > config.MaxContentBytes {
		return &domain.ValidationError{
			Message: fmt.Sprintf("content: exceeds %d bytes", config.MaxContentBytes),
		}
	}
	return nil
}
