package fvt

import (
	"context"
	"errors"

	"github.com/MihaiIliescu/egeria/internal/assetmanager/client"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/elements"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/properties"
	"github.com/MihaiIliescu/egeria/internal/assetmanager/rest"
)

const (
	createProcessTestCase = "CreateProcessTest"
	maxPageSize           = 100

	processName                    = "TestProcess qualifiedName"
	processDisplayName             = "Process displayName"
	processDescription             = "Process description"
	processAdditionalPropertyName  = "TestProcess additionalPropertyName"
	processAdditionalPropertyValue = "TestProcess additionalPropertyValue"

	portName        = "TestPort qualifiedName"
	portDisplayName = "Port displayName"
)

// CreateProcessTest creates a process, reads it back by GUID and by name, adds a port and
// checks the port is listed for the process.
func CreateProcessTest(ctx context.Context, serverName, platformURLRoot, userID string, opts ...client.Option) *Results {
	results := NewResults(createProcessTestCase)

	results.IncrementNumberOfTests()
	if err := runCreateProcess(ctx, serverName, platformURLRoot, userID, opts); err != nil {
		results.AddCapturedError(err)
		return results
	}
	results.IncrementNumberOfSuccesses()
	return results
}

func runCreateProcess(ctx context.Context, serverName, platformURLRoot, userID string, opts []client.Option) error {
	c, err := client.NewLineageExchangeClient(serverName, platformURLRoot, opts...)
	if err != nil {
		return &UnexpectedCondition{TestCase: createProcessTestCase, Activity: "getLineageExchangeClient", Err: err}
	}
	processGUID, err := createProcess(ctx, c, userID)
	if err != nil {
		return err
	}
	return createPort(ctx, c, userID, processGUID)
}

func unexpected(activity string, err error) error {
	var condition *UnexpectedCondition
	if errors.As(err, &condition) {
		return err
	}
	return &UnexpectedCondition{TestCase: createProcessTestCase, Activity: activity, Err: err}
}

func failed(activity, detail string) error {
	return &UnexpectedCondition{TestCase: createProcessTestCase, Activity: activity + "(" + detail + ")"}
}

func createProcess(ctx context.Context, c *client.LineageExchangeClient, userID string) (string, error) {
	const activity = "createProcess"

	guid, err := c.CreateProcess(ctx, userID, false, &rest.ProcessRequestBody{
		ElementProperties: &properties.ProcessProperties{
			ReferenceableProperties: properties.ReferenceableProperties{
				QualifiedName:        processName,
				AdditionalProperties: map[string]string{processAdditionalPropertyName: processAdditionalPropertyValue},
			},
			DisplayName: processDisplayName,
			Description: processDescription,
		},
	})
	if err != nil {
		return "", unexpected(activity, err)
	}
	if guid == "" {
		return "", failed(activity, "no GUID for Create")
	}

	element, err := c.GetProcessByGUID(ctx, userID, guid, nil)
	if err != nil {
		return "", unexpected(activity, err)
	}
	if err := checkProcess(activity, "Retrieve", element); err != nil {
		return "", err
	}

	list, err := c.GetProcessesByName(ctx, userID, 0, maxPageSize, &rest.NameRequestBody{Name: processName})
	if err != nil {
		return "", unexpected(activity, err)
	}
	switch {
	case list == nil:
		return "", failed(activity, "no Process for RetrieveByName")
	case len(list) != 1:
		return "", failed(activity, "Process list for RetrieveByName does not hold exactly one element")
	}
	if err := checkProcess(activity, "RetrieveByName", list[0]); err != nil {
		return "", err
	}
	return guid, nil
}

func checkProcess(activity, step string, element *elements.ProcessElement) error {
	if element == nil || element.ProcessProperties == nil {
		return failed(activity, "no Process from "+step)
	}
	p := element.ProcessProperties
	switch {
	case p.QualifiedName != processName:
		return failed(activity, "Bad qualifiedName from "+step)
	case p.DisplayName != processDisplayName:
		return failed(activity, "Bad displayName from "+step)
	case p.Description != processDescription:
		return failed(activity, "Bad description from "+step)
	case p.AdditionalProperties == nil:
		return failed(activity, "null additionalProperties from "+step)
	case p.AdditionalProperties[processAdditionalPropertyName] != processAdditionalPropertyValue:
		return failed(activity, "bad additionalProperties from "+step)
	}
	return nil
}

func createPort(ctx context.Context, c *client.LineageExchangeClient, userID, processGUID string) error {
	const activity = "createPort"

	portGUID, err := c.CreatePort(ctx, userID, false, processGUID, &rest.PortRequestBody{
		ElementProperties: &properties.PortProperties{
			ReferenceableProperties: properties.ReferenceableProperties{QualifiedName: portName},
			DisplayName:             portDisplayName,
			PortType:                properties.PortTypeInput,
		},
	})
	if err != nil {
		return unexpected(activity, err)
	}
	if portGUID == "" {
		return failed(activity, "no GUID for Create")
	}

	ports, err := c.GetPortsForProcess(ctx, userID, processGUID, 0, maxPageSize, nil)
	if err != nil {
		return unexpected(activity, err)
	}
	if len(ports) != 1 {
		return failed(activity, "Port list for process does not hold exactly one element")
	}
	port := ports[0]
	switch {
	case port.ElementHeader.GUID != portGUID:
		return failed(activity, "Bad GUID from RetrieveForProcess")
	case port.PortProperties == nil || port.PortProperties.QualifiedName != portName:
		return failed(activity, "Bad qualifiedName from RetrieveForProcess")
	case port.PortProperties.DisplayName != portDisplayName:
		return failed(activity, "Bad displayName from RetrieveForProcess")
	}
	return nil
}
