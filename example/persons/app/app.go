// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"github.com/z5labs/sieve"
	"github.com/z5labs/sieve/example/persons/endpoint"
	"github.com/z5labs/sieve/example/persons/person"
	"github.com/z5labs/sieve/health"
	"github.com/z5labs/sieve/rest"

	"github.com/z5labs/bedrock/lifecycle"
)

type Config struct {
	rest.Config `config:",squash"`

	Postgres struct {
		URL string `config:"url"`
	} `config:"postgres"`
}

func Init(ctx context.Context, cfg Config) (*rest.Api, error) {
	log := sieve.Logger("github.com/z5labs/sieve/example/persons/app")

	started := new(health.Binary)
	dir, ready, err := openDirectory(ctx, cfg, started)
	if err != nil {
		return nil, err
	}

	api := rest.NewApi(
		cfg.OpenApi.Title,
		cfg.OpenApi.Version,
		rest.MaxUploadBytes(cfg.HTTP.MaxUploadBytes),
		rest.Readiness(ready),
		endpoint.Home(),
		endpoint.CreatePerson(),
		endpoint.ShowPerson(),
		endpoint.ShowPersonByID(dir),
		endpoint.UpdatePerson(),
		endpoint.Login(),
		endpoint.Contact(),
		endpoint.UploadImage(),
	)

	started.MarkHealthy()
	log.InfoContext(ctx, "initialized persons api")
	return api, nil
}

func openDirectory(ctx context.Context, cfg Config, started *health.Binary) (person.Directory, health.Monitor, error) {
	if cfg.Postgres.URL == "" {
		return person.NewStaticDirectory(1, 2, 3, 4, 5), started, nil
	}

	pg, err := person.OpenPostgres(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}

	lc, ok := lifecycle.FromContext(ctx)
	if ok {
		lc.OnPostRun(lifecycle.HookFunc(func(ctx context.Context) error {
			return pg.Close()
		}))
	}

	return pg, health.And(started, health.Ping(pg.Ping)), nil
}
