// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media/asset"
	"github.com/LeeDigitalWorks/zapmedia/pkg/mediastore"
	"github.com/LeeDigitalWorks/zapmedia/pkg/s3client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadStoreConfig reads the store.*, cloud.* and s3.* keys.
func loadStoreConfig(fl *FlagLoader) mediastore.Config {
	cfg := mediastore.DefaultConfig()
	if t := fl.String("store.type"); t != "" {
		cfg.Type = t
	}

	cfg.Cloud.CloudName = viper.GetString("cloud.name")
	cfg.Cloud.APIKey = viper.GetString("cloud.api_key")
	cfg.Cloud.APISecret = viper.GetString("cloud.api_secret")
	if v := viper.GetString("cloud.api_base"); v != "" {
		cfg.Cloud.APIBase = v
	}
	if v := viper.GetDuration("cloud.timeout"); v > 0 {
		cfg.Cloud.Timeout = v
	}
	if v := viper.GetFloat64("cloud.admin_rps"); v > 0 {
		cfg.Cloud.AdminRPS = v
	}
	cfg.Cloud.AdminBurst = viper.GetInt("cloud.admin_burst")

	cfg.S3.Bucket = viper.GetString("s3.bucket")
	cfg.S3.PublicURL = viper.GetString("s3.public_base")
	cfg.S3.TempDir = viper.GetString("s3.temp_dir")
	cfg.S3.Concurrency = viper.GetInt("s3.concurrency")
	cfg.S3.Client.Endpoint = viper.GetString("s3.endpoint")
	if v := viper.GetString("s3.region"); v != "" {
		cfg.S3.Client.Region = v
	}
	cfg.S3.Client.AccessKeyID = viper.GetString("s3.access_key")
	cfg.S3.Client.SecretAccessKey = viper.GetString("s3.secret_key")
	cfg.S3.Client.PathStyle = viper.GetBool("s3.path_style")

	cfg.MemoryBaseURL = viper.GetString("memory.base_url")
	return cfg
}

// loadIndexConfig reads the index.* keys.
func loadIndexConfig() catalog.Config {
	cfg := catalog.DefaultConfig()
	if v := viper.GetString("index.type"); v != "" {
		cfg.Type = v
	}
	if viper.IsSet("index.ttl") {
		cfg.TTL = viper.GetDuration("index.ttl")
	}
	if v := viper.GetInt("index.max_entries"); v > 0 {
		cfg.MaxEntries = v
	}
	if v := viper.GetString("index.redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	cfg.Redis.Password = viper.GetString("index.redis_password")
	cfg.Redis.DB = viper.GetInt("index.redis_db")
	return cfg
}

// loadPolicy reads the upload.* keys. max_size accepts human sizes such
// as "25MB".
func loadPolicy(fl *FlagLoader) (asset.Policy, error) {
	var p asset.Policy
	n, err := fl.Bytes("upload.max_size")
	if err != nil {
		return p, err
	}
	p.MaxBytes = n
	for _, t := range fl.StringSlice("upload.allowed_types") {
		if t = strings.TrimSpace(t); t != "" {
			p.AllowedTypes = append(p.AllowedTypes, t)
		}
	}
	return p, nil
}

// openManager wires the configured store and category index into an
// asset.Manager. The returned closer releases the index and the S3 pool.
func openManager(ctx context.Context, cmd *cobra.Command) (*asset.Manager, func(), error) {
	fl := NewFlagLoader(cmd)
	storeCfg := loadStoreConfig(fl)

	pool := s3client.NewPool(0, 0)
	store, err := mediastore.New(ctx, storeCfg, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create media store: %w", err)
	}

	index, err := catalog.New(ctx, loadIndexConfig())
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create category index: %w", err)
	}

	policy, err := loadPolicy(fl)
	if err != nil {
		pool.Close()
		closeIndex(index)
		return nil, nil, err
	}

	deliveryBase := viper.GetString("cloud.delivery_base")
	if deliveryBase == "" && storeCfg.Type == mediastore.TypeS3 {
		deliveryBase = storeCfg.S3.PublicURL
	}

	mgr, err := asset.New(asset.Config{
		Store:            store,
		Index:            index,
		RootFolder:       fl.String("store.root_folder"),
		DeliveryBase:     deliveryBase,
		CloudName:        storeCfg.Cloud.CloudName,
		BatchSize:        viper.GetInt("batch.size"),
		GroupConcurrency: viper.GetInt("batch.concurrency"),
		ImageMaxWidth:    viper.GetInt("upload.image_max_width"),
		Policy:           policy,
	})
	if err != nil {
		pool.Close()
		closeIndex(index)
		return nil, nil, err
	}

	logger.Debug().
		Str("store", storeCfg.Type).
		Str("index", viper.GetString("index.type")).
		Msg("media manager ready")

	return mgr, func() {
		closeIndex(index)
		pool.Close()
	}, nil
}

func closeIndex(index catalog.Index) {
	if c, ok := index.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close category index")
		}
	}
}
