// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package automation_test

import (
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splinglabs/splingd/address"
	"github.com/splinglabs/splingd/automation"
	"github.com/splinglabs/splingd/automation/mocks"
	"github.com/splinglabs/splingd/background"
	"github.com/splinglabs/splingd/expiry"
	"github.com/splinglabs/splingd/fault"
	"github.com/splinglabs/splingd/ledger/fixtures"
	"github.com/splinglabs/splingd/records"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

var identity = fixtures.Account("automation")

func pending(n byte) expiry.Pending {
	return expiry.Pending{
		Thread: address.Address{0x7, n},
		Record: &records.Thread{
			Post:    address.Address{0x9, n},
			Content: address.Address{0xc, n},
			Author:  address.Address{0xa, n},
		},
		DueTime: fixtures.Now,
	}
}

func TestParseInterval(t *testing.T) {
	d, err := automation.ParseInterval("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	d, err = automation.ParseInterval("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	for _, text := range []string{"10ms", "soon", "-5s"} {
		_, err = automation.ParseInterval(text)
		assert.Equal(t, fault.InvalidSchedule, err, text)
	}
}

func TestSweepCountsResults(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	expirer := mocks.NewMockExpirer(ctl)
	s, err := automation.New(logger.New(fixtures.LogCategory), expirer, identity, &automation.Configuration{Batch: 3})
	require.NoError(t, err)

	list := []expiry.Pending{pending(1), pending(2), pending(3)}

	expirer.EXPECT().Now().Return(fixtures.Now).Times(1)
	expirer.EXPECT().Due(fixtures.Now, 3).Return(list, nil).Times(1)
	gomock.InOrder(
		expirer.EXPECT().ExpiryCallback(identity, list[0].Record.Content, list[0].Record.Author, list[0].Record.Post, list[0].Thread).Return(expiry.Expired, nil),
		expirer.EXPECT().ExpiryCallback(identity, list[1].Record.Content, list[1].Record.Author, list[1].Record.Post, list[1].Thread).Return(expiry.AlreadyGone, nil),
		expirer.EXPECT().ExpiryCallback(identity, list[2].Record.Content, list[2].Record.Author, list[2].Record.Post, list[2].Thread).Return(expiry.AlreadyGone, fault.NotDue),
	)

	totals, err := s.Sweep()
	require.NoError(t, err)
	assert.Equal(t, automation.Totals{Expired: 1, AlreadyGone: 1, Failed: 1}, totals)
}

func TestSweepScanError(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	expirer := mocks.NewMockExpirer(ctl)
	s, err := automation.New(logger.New(fixtures.LogCategory), expirer, identity, &automation.Configuration{})
	require.NoError(t, err)

	expirer.EXPECT().Now().Return(fixtures.Now)
	expirer.EXPECT().Due(fixtures.Now, gomock.Any()).Return(nil, fault.RecordTruncated)

	_, err = s.Sweep()
	assert.Equal(t, fault.RecordTruncated, err)
}

func TestRunsInBackground(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	expirer := mocks.NewMockExpirer(ctl)
	s, err := automation.New(logger.New(fixtures.LogCategory), expirer, identity, &automation.Configuration{})
	require.NoError(t, err)
	s.SetInterval(time.Millisecond)
	assert.Equal(t, time.Second, s.Interval(), "clamped to the minimum")

	expirer.EXPECT().Now().Return(fixtures.Now).MinTimes(1)
	expirer.EXPECT().Due(fixtures.Now, gomock.Any()).Return(nil, nil).MinTimes(1)

	p := background.Start(background.Processes{s}, nil)
	time.Sleep(1500 * time.Millisecond)
	p.Stop()
}
