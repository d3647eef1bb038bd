package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/techstore/internal/models"
)

// DeviceIndex mirrors devices into an Elasticsearch index.
type DeviceIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewDeviceIndex(es *elasticsearch.Client, index string) *DeviceIndex {
	return &DeviceIndex{ES: es, Index: index}
}

type deviceDoc struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Rating      float64 `json:"rating"`
	TypeID      uint    `json:"type_id"`
	BrandID     uint    `json:"brand_id"`
}

func (x *DeviceIndex) IndexDevice(ctx context.Context, d *models.Device) error {
	body, err := json.Marshal(deviceDoc{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.StringFixed(2),
		Rating:      d.Rating,
		TypeID:      d.TypeID,
		BrandID:     d.BrandID,
	})
	if err != nil {
		return fmt.Errorf("index device: %w", err)
	}

	res, err := x.ES.Index(
		x.Index,
		bytes.NewReader(body),
		x.ES.Index.WithContext(ctx),
		x.ES.Index.WithDocumentID(strconv.FormatUint(uint64(d.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index device: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index device", res.Status(), res.Body)
	}
	return nil
}

func (x *DeviceIndex) DeleteDevice(ctx context.Context, id uint) error {
	res, err := x.ES.Delete(
		x.Index,
		strconv.FormatUint(uint64(id), 10),
		x.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete device", res.Status(), res.Body)
	}
	return nil
}

// SearchDevices returns the total hit count and the matching ids in rank order.
func (x *DeviceIndex) SearchDevices(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search devices: %w", err)
	}

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search devices: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search devices", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source deviceDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		ids[i] = hit.Source.ID
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("%s: elasticsearch %s: %s", op, status, b)
}
