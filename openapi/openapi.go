package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

const Version = "1.0.0"

// Document describes the user accounts API. It is built by hand rather than
// generated so the served contract stays exactly what the handlers implement.
func Document(appName string) *openapi3.T {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       appName,
			Version:     Version,
			Description: "User account management: registration with email verification, login, password reset and account CRUD.",
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{},
	}

	spec.Components.SecuritySchemes = openapi3.SecuritySchemes{
		"bearerAuth": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
			},
		},
	}

	spec.Paths.Set("/users", &openapi3.PathItem{
		Get:  operation("List all accounts", response(http.StatusOK, "Array of accounts")),
		Post: operation("Register an account and email a verification link", response(http.StatusCreated, "Created account")),
	})

	spec.Paths.Set("/users/{id}", &openapi3.PathItem{
		Parameters: pathParams("id"),
		Get: operation("Fetch one account",
			response(http.StatusOK, "Account"),
			response(http.StatusNotFound, "No such account")),
		Put: operation("Update name, country and image",
			response(http.StatusOK, "Updated account"),
			response(http.StatusNotFound, "No such account")),
		Delete: operation("Delete an account (idempotent)",
			response(http.StatusNoContent, "Deleted")),
	})

	spec.Paths.Set("/users/verify/{code}", &openapi3.PathItem{
		Parameters: pathParams("code"),
		Get: operation("Consume a verification code and mark the account verified",
			response(http.StatusOK, "Verified account"),
			response(http.StatusUnauthorized, "Code not found")),
	})

	spec.Paths.Set("/users/login", &openapi3.PathItem{
		Post: operation("Exchange credentials for a signed token",
			response(http.StatusOK, "Account and token"),
			response(http.StatusUnauthorized, "Invalid credentials or unverified account")),
	})

	me := operation("Fetch the account identified by the bearer token",
		response(http.StatusOK, "Account"),
		response(http.StatusUnauthorized, "Missing or invalid token"))
	me.Security = openapi3.NewSecurityRequirements().With(
		openapi3.NewSecurityRequirement().Authenticate("bearerAuth"))
	spec.Paths.Set("/users/me", &openapi3.PathItem{Get: me})

	spec.Paths.Set("/users/reset_password", &openapi3.PathItem{
		Post: operation("Request a password reset email",
			response(http.StatusCreated, "Reset email queued"),
			response(http.StatusUnauthorized, "Unknown account")),
	})

	spec.Paths.Set("/users/reset_password/{code}", &openapi3.PathItem{
		Parameters: pathParams("code"),
		Post: operation("Consume a reset code and set a new password",
			response(http.StatusOK, "Password replaced"),
			response(http.StatusUnauthorized, "Invalid or expired code")),
	})

	return spec
}

type statusResponse struct {
	status      int
	description string
}

func response(status int, description string) statusResponse {
	return statusResponse{status: status, description: description}
}

func operation(summary string, responses ...statusResponse) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Summary = summary
	op.Responses = openapi3.NewResponses()
	for _, r := range responses {
		op.AddResponse(r.status, openapi3.NewResponse().WithDescription(r.description))
	}
	return op
}

func pathParams(names ...string) openapi3.Parameters {
	params := openapi3.Parameters{}
	for _, name := range names {
		params = append(params, &openapi3.ParameterRef{
			Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()),
		})
	}
	return params
}

// Register serves the document as JSON and YAML.
func Register(e *echo.Echo, spec *openapi3.T) {
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, spec)
	})

	e.GET("/openapi.yaml", func(c echo.Context) error {
		data, err := specYAML(spec)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	})
}

func specYAML(spec *openapi3.T) ([]byte, error) {
	jsonData, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal spec: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode spec: %w", err)
	}

	return yaml.Marshal(doc)
}
