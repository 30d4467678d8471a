package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	CustomerName string   `json:"customer_name" validate:"required"`
	Phone        string   `json:"phone" validate:"required"`
	Items        []string `json:"items" validate:"required,min=1"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includePhone bool, includeItems bool) bool {
			reqMap := make(map[string]interface{})

			if includeName {
				reqMap["customer_name"] = "Jane"
			}
			if includePhone {
				reqMap["phone"] = "555"
			}
			if includeItems {
				reqMap["items"] = []string{"p1"}
			}

			allFieldsPresent := includeName && includePhone && includeItems

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestFailedFields_ReportsFieldNames(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{"phone":"555"}`)))

	var testReq testRequest
	err := DecodeAndValidate(req, &testReq)
	require.Error(t, err)

	fields := FailedFields(err)
	assert.Contains(t, fields, "CustomerName")
	assert.Contains(t, fields, "Items")
	assert.NotContains(t, fields, "Phone")
}

func TestDecodeAndValidate_EmptyItemsRejected(t *testing.T) {
	body := []byte(`{"customer_name":"Jane","phone":"555","items":[]}`)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))

	var testReq testRequest
	err := DecodeAndValidate(req, &testReq)
	require.Error(t, err)
	assert.Equal(t, []string{"Items"}, FailedFields(err))
}
