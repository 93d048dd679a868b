package repository

import (
	"math/rand/v2"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"

	"gonum.org/v1/gonum/stat/distuv"
)

// Generation defaults mirror the original dashboard fixture: 100 daily rows
// starting 2023-01-01, seed 123.
const (
	DefaultSeed      = 123
	DefaultDays      = 100
	DefaultStartDate = "2023-01-01"

	defaultSalesMean     = 1000
	defaultSalesStd      = 200
	defaultUsersLambda   = 500
	defaultConversionMin = 0.01
	defaultConversionMax = 0.05
)

// DatasetConfig controls synthetic dataset generation.
type DatasetConfig struct {
	Seed      uint64
	Days      int
	StartDate time.Time

	SalesMean     float64
	SalesStd      float64
	UsersLambda   float64
	ConversionMin float64
	ConversionMax float64
}

func (c *DatasetConfig) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Days <= 0 {
		c.Days = DefaultDays
	}
	if c.StartDate.IsZero() {
		c.StartDate, _ = time.Parse(models.DateLayout, DefaultStartDate)
	}
	if c.SalesMean == 0 {
		c.SalesMean = defaultSalesMean
	}
	if c.SalesStd == 0 {
		c.SalesStd = defaultSalesStd
	}
	if c.UsersLambda == 0 {
		c.UsersLambda = defaultUsersLambda
	}
	if c.ConversionMin == 0 {
		c.ConversionMin = defaultConversionMin
	}
	if c.ConversionMax == 0 {
		c.ConversionMax = defaultConversionMax
	}
}

// MemoryDataset holds the generated rows for the process lifetime. Rows are
// generated exactly once and never mutated afterwards.
type MemoryDataset struct {
	rows []models.Row
	meta models.DatasetMeta
}

var _ repository.DatasetSource = (*MemoryDataset)(nil)

// NewMemoryDataset generates the dataset. Deterministic: the same seed
// always produces the same rows. Sales is a cumulative sum of
// Normal(mean, std) daily increments, users are Poisson(lambda) counts and
// conversion is Uniform(min, max). Dates are consecutive days.
func NewMemoryDataset(cfg DatasetConfig) *MemoryDataset {
	cfg.applyDefaults()

	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	normal := distuv.Normal{Mu: cfg.SalesMean, Sigma: cfg.SalesStd, Src: src}
	poisson := distuv.Poisson{Lambda: cfg.UsersLambda, Src: src}
	uniform := distuv.Uniform{Min: cfg.ConversionMin, Max: cfg.ConversionMax, Src: src}

	// Column-wise draws, like the original fixture: the full sales series
	// first, then users, then conversion.
	sales := make([]float64, cfg.Days)
	var running float64
	for i := range sales {
		running += normal.Rand()
		sales[i] = running
	}
	users := make([]int64, cfg.Days)
	for i := range users {
		users[i] = int64(poisson.Rand())
	}
	conversion := make([]float64, cfg.Days)
	for i := range conversion {
		conversion[i] = uniform.Rand()
	}

	start := models.Day(cfg.StartDate)
	rows := make([]models.Row, cfg.Days)
	for i := range rows {
		rows[i] = models.Row{
			Date:       start.AddDate(0, 0, i),
			Sales:      sales[i],
			Users:      users[i],
			Conversion: conversion[i],
		}
	}

	return &MemoryDataset{
		rows: rows,
		meta: models.DatasetMeta{
			Rows: len(rows),
			Span: models.DateRange{Start: rows[0].Date, End: rows[len(rows)-1].Date},
			Seed: cfg.Seed,
		},
	}
}

// Rows returns the full ordered dataset. Callers must not mutate it.
func (d *MemoryDataset) Rows() []models.Row { return d.rows }

// Meta describes the generated dataset.
func (d *MemoryDataset) Meta() models.DatasetMeta { return d.meta }
