// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package automation - fire expiry callbacks when they fall due
//
// the sweeper runs as a background process calling the engine as the
// automation identity; each callback is its own transition so a
// failure on one post does not affect the others
package automation

import (
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
)

const (
	defaultInterval = 10 * time.Second
	minimumInterval = time.Second
	defaultBatch    = 100
)

// Configuration - sweep timing
type Configuration struct {
	Interval string `gluamapper:"interval" json:"interval"`
	Batch    int    `gluamapper:"batch" json:"batch"`
}

// Expirer - the engine operations used by the sweeper
type Expirer interface {
	Now() time.Time
	Due(now time.Time, limit int) ([]expiry.Pending, error)
	ExpiryCallback(caller address.Address, content address.Address, author address.Address, post address.Address, thread address.Address) (expiry.Result, error)
}

// Sweeper - periodic expiry of due posts
type Sweeper struct {
	log      *logger.L
	expirer  Expirer
	identity address.Address
	batch    int
	interval int64 // nanoseconds, changed by SetInterval
}

// Totals - outcome of one sweep
type Totals struct {
	Expired     int
	AlreadyGone int
	Failed      int
}

// New - sweeper calling expirer as identity
func New(log *logger.L, expirer Expirer, identity address.Address, configuration *Configuration) (*Sweeper, error) {
	interval, err := ParseInterval(configuration.Interval)
	if nil != err {
		return nil, err
	}

	batch := configuration.Batch
	if batch <= 0 {
		batch = defaultBatch
	}

	return &Sweeper{
		log:      log,
		expirer:  expirer,
		identity: identity,
		batch:    batch,
		interval: int64(interval),
	}, nil
}

// ParseInterval - sweep interval text, blank gives the default
func ParseInterval(text string) (time.Duration, error) {
	if "" == text {
		return defaultInterval, nil
	}
	interval, err := time.ParseDuration(text)
	if nil != err || interval < minimumInterval {
		return 0, fault.InvalidSchedule
	}
	return interval, nil
}

// Interval - current sweep interval
func (s *Sweeper) Interval() time.Duration {
	return time.Duration(atomic.LoadInt64(&s.interval))
}

// SetInterval - change the interval, effective after the next sweep
func (s *Sweeper) SetInterval(interval time.Duration) {
	if interval < minimumInterval {
		interval = minimumInterval
	}
	atomic.StoreInt64(&s.interval, int64(interval))
	s.log.Infof("interval: %s", interval)
}

// Sweep - fire callbacks for every registration due now
func (s *Sweeper) Sweep() (Totals, error) {
	totals := Totals{}

	pending, err := s.expirer.Due(s.expirer.Now(), s.batch)
	if nil != err {
		s.log.Errorf("due scan error: %s", err)
		return totals, err
	}

	for _, p := range pending {
		result, err := s.expirer.ExpiryCallback(s.identity, p.Record.Content, p.Record.Author, p.Record.Post, p.Thread)
		if nil != err {
			s.log.Warnf("post: %s  due: %s  callback error: %s", p.Record.Post, p.DueTime, err)
			totals.Failed += 1
			continue
		}
		switch result {
		case expiry.Expired:
			totals.Expired += 1
		case expiry.AlreadyGone:
			totals.AlreadyGone += 1
		}
		s.log.Debugf("post: %s  result: %s", p.Record.Post, result)
	}
	return totals, nil
}

// Run - background process body
func (s *Sweeper) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(s.Interval()):
			totals, err := s.Sweep()
			if nil == err && totals.Expired+totals.AlreadyGone+totals.Failed > 0 {
				log.Infof("expired: %d  already gone: %d  failed: %d", totals.Expired, totals.AlreadyGone, totals.Failed)
			}
		}
	}

	log.Info("shutting down…")
	log.Flush()
}
