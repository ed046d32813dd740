// internal/common/database/elasticsearch.go
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"kisan-intent/internal/common/config"
	"kisan-intent/internal/intent"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchClient holds the connection behind index training sources.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch prefers cfg.Addresses and falls back to cfg.URL.
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("database.elasticsearch.addresses or url is required")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// IndexTrainingRecords writes records to index in one bulk request, storing
// the query and intent under queryField and intentField. With refresh set the
// documents are searchable when it returns.
func (c *ElasticsearchClient) IndexTrainingRecords(ctx context.Context, index, queryField, intentField string, refresh bool, records ...intent.TrainingRecord) error {
	if len(records) == 0 {
		return nil
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(map[string]interface{}{"index": map[string]string{}}); err != nil {
			return err
		}
		if err := enc.Encode(map[string]string{queryField: rec.Query, intentField: rec.Intent}); err != nil {
			return err
		}
	}

	opts := []func(*esapi.BulkRequest){
		c.Client.Bulk.WithContext(ctx),
		c.Client.Bulk.WithIndex(index),
	}
	if refresh {
		opts = append(opts, c.Client.Bulk.WithRefresh("true"))
	}
	res, err := c.Client.Bulk(&body, opts...)
	if err != nil {
		return fmt.Errorf("bulk index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("bulk index %s: %s: %s", index, res.Status(), msg)
	}

	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("bulk index %s: decode response: %w", index, err)
	}
	if parsed.Errors {
		return fmt.Errorf("bulk index %s: some documents were rejected", index)
	}
	return nil
}
