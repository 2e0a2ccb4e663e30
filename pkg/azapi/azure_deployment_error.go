// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// DeploymentErrorLine is one node of the nested error detail tree ARM
// returns for a failed deployment.
type DeploymentErrorLine struct {
	// The code of the error line, if applicable
	Code string
	// The message that represents the error
	Message string
	// Inner errors
	Inner []*DeploymentErrorLine
}

// AzureDeploymentError unwraps the JSON error body of a failed deployment
// into readable lines. ARM nests the actual cause several levels deep under
// generic wrapper codes; Error flattens the tree.
type AzureDeploymentError struct {
	Json    string
	Details *DeploymentErrorLine
}

func NewAzureDeploymentError(jsonErrorResponse string) *AzureDeploymentError {
	deploymentError := &AzureDeploymentError{Json: jsonErrorResponse}

	var errorMap map[string]any
	if err := json.Unmarshal([]byte(jsonErrorResponse), &errorMap); err == nil {
		deploymentError.Details = lineFromMap(errorMap)
	}

	return deploymentError
}

// createDeploymentError pulls the raw error body out of an SDK response
// error so the nested details survive the trip to the caller.
func createDeploymentError(err error) error {
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) && responseErr.RawResponse != nil && responseErr.RawResponse.Body != nil {
		body, readErr := io.ReadAll(responseErr.RawResponse.Body)
		if readErr == nil && len(body) > 0 {
			return NewAzureDeploymentError(string(body))
		}
	}

	return err
}

func (e *AzureDeploymentError) Error() string {
	// Return the original error string if we can't parse the JSON
	if e.Details == nil {
		return e.Json
	}

	var sb strings.Builder
	for _, line := range flattenLines(e.Details) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

func flattenLines(line *DeploymentErrorLine) []string {
	var lines []string

	if strings.TrimSpace(line.Message) != "" {
		lines = append(lines, line.Message)
	}

	for _, inner := range line.Inner {
		if inner != nil {
			lines = append(lines, flattenLines(inner)...)
		}
	}

	return lines
}

func lineFromMap(errorMap map[string]any) *DeploymentErrorLine {
	var code, message string
	var inner []*DeploymentErrorLine

	for key, value := range errorMap {
		switch strings.ToLower(key) {
		case "code":
			code = fmt.Sprint(value)
		case "message":
			// some services double-encode the nested error into the message
			rawMessage := fmt.Sprint(value)
			var messageMap map[string]any
			if err := json.Unmarshal([]byte(rawMessage), &messageMap); err == nil {
				inner = append(inner, lineFromMap(messageMap))
			} else {
				message = rawMessage
			}
		case "error":
			if nested, ok := value.(map[string]any); ok {
				inner = append(inner, lineFromMap(nested))
			} else {
				inner = append(inner, &DeploymentErrorLine{Message: fmt.Sprint(value)})
			}
		case "details":
			if nested, ok := value.([]any); ok {
				for _, entry := range nested {
					if entryMap, ok := entry.(map[string]any); ok {
						inner = append(inner, lineFromMap(entryMap))
					} else {
						inner = append(inner, &DeploymentErrorLine{Message: fmt.Sprint(entry)})
					}
				}
			} else {
				inner = append(inner, &DeploymentErrorLine{Message: fmt.Sprint(value)})
			}
		}
	}

	// generic wrapper codes carry no information of their own
	if code == "DeploymentFailed" || code == "ResourceDeploymentFailure" {
		return &DeploymentErrorLine{Inner: inner}
	}

	var errorMessage string
	if code != "" && message != "" {
		errorMessage = fmt.Sprintf("%s: %s", code, message)
	} else if message != "" {
		errorMessage = message
	}

	return &DeploymentErrorLine{Code: code, Message: errorMessage, Inner: inner}
}
