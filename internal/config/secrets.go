package config

import (
	"context"
	"encoding/json"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// resursSecret is the JSON document stored in Secret Manager.
type resursSecret struct {
	Test        APICredentials `json:"test"`
	Production  APICredentials `json:"prod"`
	Legacy      APICredentials `json:"legacy"`
	SnapshotKey string         `json:"snapshot_key"`
	StoreID     string         `json:"store_id"`
}

// loadFromSecretManager fetches API credentials from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{name}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	if c.Resurs.GCPProject == "" {
		return fmt.Errorf("GCP_PROJECT is required when RESURS_SECRET_SOURCE=gcp")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.Resurs.GCPProject, c.Resurs.SecretName)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	return c.applySecret(result.Payload.Data)
}

// applySecret merges a secret document over the env-derived values.
// Empty fields in the document keep whatever the environment provided.
func (c *Config) applySecret(data []byte) error {
	var s resursSecret
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	if s.Test.IsSet() {
		c.Resurs.Test = s.Test
	}
	if s.Production.IsSet() {
		c.Resurs.Production = s.Production
	}
	if s.Legacy.IsSet() {
		c.Resurs.Legacy = s.Legacy
	}
	if s.SnapshotKey != "" {
		c.Resurs.SnapshotKey = s.SnapshotKey
	}
	if s.StoreID != "" {
		c.Resurs.StoreID = s.StoreID
	}
	return nil
}
