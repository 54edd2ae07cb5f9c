package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/wilayah/config"
	"github.com/jacentio/wilayah/store"
)

// Item attribute names shared by the four DynamoDB tables.
const (
	AttrCode         = "code"
	AttrName         = "name"
	AttrProvinceCode = "province_code"
	AttrCityCode     = "city_code"
	AttrDistrictCode = "district_code"
	AttrLatitude     = "latitude"
	AttrLongitude    = "longitude"
)

type item struct {
	Code         string   `dynamodbav:"code"`
	Name         string   `dynamodbav:"name"`
	ProvinceCode string   `dynamodbav:"province_code,omitempty"`
	CityCode     string   `dynamodbav:"city_code,omitempty"`
	DistrictCode string   `dynamodbav:"district_code,omitempty"`
	Latitude     *float64 `dynamodbav:"latitude,omitempty"`
	Longitude    *float64 `dynamodbav:"longitude,omitempty"`
}

// Dynamo loads reference data by scanning one DynamoDB table per level.
type Dynamo struct {
	client dynamodb.ScanAPIClient
	tables config.TablesConfig
	logger *slog.Logger
}

// NewDynamo creates a DynamoDB loader.
// If logger is nil, slog.Default() is used.
func NewDynamo(client dynamodb.ScanAPIClient, tables config.TablesConfig, logger *slog.Logger) *Dynamo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dynamo{client: client, tables: tables, logger: logger}
}

// NewDynamoClient builds a DynamoDB client from cfg using the default AWS
// credential chain.
func NewDynamoClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Loaders returns store loaders backed by d.
func (d *Dynamo) Loaders() store.Loaders {
	return store.Loaders{
		Provinces: store.LoaderFunc[store.Province](d.Provinces),
		Cities:    store.LoaderFunc[store.City](d.Cities),
		Districts: store.LoaderFunc[store.District](d.Districts),
		Villages:  store.LoaderFunc[store.Village](d.Villages),
	}
}

// Provinces scans the provinces table. Coordinates are mandatory.
func (d *Dynamo) Provinces(ctx context.Context) (map[string]store.Province, error) {
	out := make(map[string]store.Province)
	err := d.scan(ctx, d.tables.Provinces, func(it item) error {
		if it.Latitude == nil || it.Longitude == nil {
			return fmt.Errorf("province %s: missing coordinates", it.Code)
		}
		out[it.Code] = store.Province{Code: it.Code, Name: it.Name, Latitude: *it.Latitude, Longitude: *it.Longitude}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cities scans the cities table. Coordinates are mandatory.
func (d *Dynamo) Cities(ctx context.Context) (map[string]store.City, error) {
	out := make(map[string]store.City)
	err := d.scan(ctx, d.tables.Cities, func(it item) error {
		if it.Latitude == nil || it.Longitude == nil {
			return fmt.Errorf("city %s: missing coordinates", it.Code)
		}
		out[it.Code] = store.City{
			Code:         it.Code,
			ProvinceCode: it.ProvinceCode,
			Name:         it.Name,
			Latitude:     *it.Latitude,
			Longitude:    *it.Longitude,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Districts scans the districts table. Missing coordinates become 0.
func (d *Dynamo) Districts(ctx context.Context) (map[string]store.District, error) {
	out := make(map[string]store.District)
	err := d.scan(ctx, d.tables.Districts, func(it item) error {
		out[it.Code] = store.District{
			Code:      it.Code,
			CityCode:  it.CityCode,
			Name:      it.Name,
			Latitude:  deref(it.Latitude),
			Longitude: deref(it.Longitude),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Villages scans the villages table. Missing coordinates become 0.
// A failed scan yields no villages.
func (d *Dynamo) Villages(ctx context.Context) (map[string]store.Village, error) {
	out := make(map[string]store.Village)
	err := d.scan(ctx, d.tables.Villages, func(it item) error {
		out[it.Code] = store.Village{
			Code:         it.Code,
			DistrictCode: it.DistrictCode,
			Name:         it.Name,
			Latitude:     deref(it.Latitude),
			Longitude:    deref(it.Longitude),
		}
		return nil
	})
	if err != nil {
		d.logger.Warn("village load failed", "table", d.tables.Villages, "error", err)
		return map[string]store.Village{}, nil
	}
	return out, nil
}

func (d *Dynamo) scan(ctx context.Context, table string, fn func(item) error) error {
	p := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})

	pages := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		pages++

		var items []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return fmt.Errorf("unmarshal %s: %w", table, err)
		}
		for _, it := range items {
			if it.Code == "" {
				continue
			}
			if err := fn(it); err != nil {
				return fmt.Errorf("%s: %w", table, err)
			}
		}
	}

	d.logger.Debug("table scanned", "table", table, "pages", pages)
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
