package handlers

import (
	"net/http"
	"testing"

	"gastocerto/internal/descriptions"
	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/models"
)

func TestDescriptionHandler(t *testing.T) {
	descSvc := &mockDescriptionService{
		listDescriptionsFn: func(string) ([]models.DescriptionTag, error) {
			return descriptions.DefaultTags(), nil
		},
		addDescriptionFn: func(householdID, name string) (*models.DescriptionTag, error) {
			if name == "aluguel" {
				return nil, apperrors.ErrDescriptionExists
			}
			return &models.DescriptionTag{HouseholdID: householdID, Name: name}, nil
		},
	}
	r := setupRouter(Services{Descriptions: descSvc})

	rec := doRequest(r, "GET", "/api/v1/descriptions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list := parseJSON(t, rec)["descriptions"].([]interface{})
	if len(list) != len(descriptions.Defaults) {
		t.Errorf("expected %d descriptions, got %d", len(descriptions.Defaults), len(list))
	}

	rec = doRequest(r, "POST", "/api/v1/descriptions", `{"name":"Academia"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	tag := parseJSON(t, rec)["description"].(map[string]interface{})
	if tag["name"] != "Academia" || tag["household_id"] != testHousehold {
		t.Errorf("unexpected tag %v", tag)
	}

	rec = doRequest(r, "POST", "/api/v1/descriptions", `{"name":"aluguel"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "DESCRIPTION_EXISTS")

	rec = doRequest(r, "POST", "/api/v1/descriptions", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
