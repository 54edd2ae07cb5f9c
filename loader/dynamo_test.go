package loader_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/wilayah/config"
	"github.com/jacentio/wilayah/loader"
	"github.com/jacentio/wilayah/store"
)

// fakeScanner serves each table in pages of pageSize items.
type fakeScanner struct {
	tables   map[string][]map[string]types.AttributeValue
	failing  map[string]error
	pageSize int
	calls    int
}

func (f *fakeScanner) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.calls++
	table := aws.ToString(in.TableName)
	if err := f.failing[table]; err != nil {
		return nil, err
	}
	items, ok := f.tables[table]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table " + table + " not found")}
	}

	start := 0
	if in.ExclusiveStartKey != nil {
		n, _ := strconv.Atoi(in.ExclusiveStartKey["offset"].(*types.AttributeValueMemberN).Value)
		start = n
	}
	end := min(start+f.pageSize, len(items))

	out := &dynamodb.ScanOutput{Items: items[start:end]}
	if end < len(items) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"offset": &types.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

func marshal(t *testing.T, v ...any) []map[string]types.AttributeValue {
	t.Helper()
	out := make([]map[string]types.AttributeValue, 0, len(v))
	for _, it := range v {
		m, err := attributevalue.MarshalMap(it)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

var tables = config.TablesConfig{
	Provinces: "p",
	Cities:    "c",
	Districts: "d",
	Villages:  "v",
}

func sampleScanner(t *testing.T) *fakeScanner {
	return &fakeScanner{
		pageSize: 2,
		tables: map[string][]map[string]types.AttributeValue{
			"p": marshal(t,
				map[string]any{loader.AttrCode: "32", loader.AttrName: "Jawa Barat", loader.AttrLatitude: -6.9, loader.AttrLongitude: 107.6},
				map[string]any{loader.AttrCode: "31", loader.AttrName: "DKI Jakarta", loader.AttrLatitude: -6.2, loader.AttrLongitude: 106.8},
				map[string]any{loader.AttrCode: "11", loader.AttrName: "Aceh", loader.AttrLatitude: 4.7, loader.AttrLongitude: 96.7},
			),
			"c": marshal(t,
				map[string]any{loader.AttrCode: "3273", loader.AttrProvinceCode: "32", loader.AttrName: "Kota Bandung", loader.AttrLatitude: -6.91, loader.AttrLongitude: 107.61},
			),
			"d": marshal(t,
				map[string]any{loader.AttrCode: "327301", loader.AttrCityCode: "3273", loader.AttrName: "Sukasari"},
			),
			"v": marshal(t,
				map[string]any{loader.AttrCode: "3273011001", loader.AttrDistrictCode: "327301", loader.AttrName: "Sukarasa", loader.AttrLatitude: -6.86},
				map[string]any{loader.AttrName: "no code"},
			),
		},
	}
}

func TestDynamo_Loaders(t *testing.T) {
	scanner := sampleScanner(t)
	l := loader.NewDynamo(scanner, tables, quiet())

	s, err := store.New(context.Background(), l.Loaders(), store.WithLogger(quiet()))
	require.NoError(t, err)

	assert.Equal(t, 3, s.Provinces().Len())
	assert.Equal(t, 1, s.Cities().Len())
	assert.Equal(t, 1, s.Districts().Len())
	assert.Equal(t, 1, s.Villages().Len())

	// 2 pages of provinces, one page each for the rest
	assert.Equal(t, 5, scanner.calls)

	p, _ := s.Provinces().Get("11")
	assert.Equal(t, store.Province{Code: "11", Name: "Aceh", Latitude: 4.7, Longitude: 96.7}, p)

	c, _ := s.Cities().Get("3273")
	assert.Equal(t, "32", c.ProvinceCode)

	d, _ := s.Districts().Get("327301")
	assert.Equal(t, "3273", d.CityCode)
	assert.Zero(t, d.Latitude)

	v, _ := s.Villages().Get("3273011001")
	assert.Equal(t, "327301", v.DistrictCode)
	assert.Equal(t, -6.86, v.Latitude)
	assert.Zero(t, v.Longitude)
}

func TestDynamo_MissingProvinceCoordinates(t *testing.T) {
	scanner := sampleScanner(t)
	scanner.tables["p"] = marshal(t, map[string]any{loader.AttrCode: "32", loader.AttrName: "Jawa Barat", loader.AttrLatitude: -6.9})

	_, err := loader.NewDynamo(scanner, tables, quiet()).Provinces(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "province 32: missing coordinates")
}

func TestDynamo_ScanErrorIsFatal(t *testing.T) {
	boom := errors.New("throttled")
	scanner := sampleScanner(t)
	scanner.failing = map[string]error{"c": boom}

	_, err := store.New(context.Background(), loader.NewDynamo(scanner, tables, quiet()).Loaders(), store.WithLogger(quiet()))
	assert.ErrorIs(t, err, store.ErrLoad)
	assert.ErrorIs(t, err, boom)
}

func TestDynamo_VillageScanErrorYieldsEmpty(t *testing.T) {
	var buf bytes.Buffer
	scanner := sampleScanner(t)
	delete(scanner.tables, "v")

	l := loader.NewDynamo(scanner, tables, slog.New(slog.NewTextHandler(&buf, nil)))
	villages, err := l.Villages(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, villages)
	assert.Empty(t, villages)
	assert.Contains(t, buf.String(), "village load failed")
	assert.Contains(t, buf.String(), "table=v")
}
