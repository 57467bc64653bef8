package influx

import (
	"context"
	"em27-metadata/internal/config/components"
	"fmt"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"time"
)

type InfluxDB struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	config   components.InfluxConfigImpl
}

func NewConnection(cfg components.InfluxConfigImpl) (*InfluxDB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval * 1000)).
		SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to InfluxDB: %w", err)
	}

	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("InfluxDB health check failed: %s", health.Status)
	}

	influxDB := &InfluxDB{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Organization, cfg.Bucket),
		config:   cfg,
	}

	return influxDB, nil
}

func (i *InfluxDB) GetWriteAPI() api.WriteAPIBlocking {
	return i.writeAPI
}

func (i *InfluxDB) BatchSize() int {
	return i.config.BatchSize
}

func (i *InfluxDB) Close() {
	i.client.Close()
}
