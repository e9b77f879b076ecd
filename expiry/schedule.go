// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package expiry

import (
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/splinglabs/splingd/fault"
)

// DefaultSchedule - every ten seconds, seconds first with a trailing year
const DefaultSchedule = "*/10 * * * * * *"

// seconds first, five standard fields, optional descriptors
var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule - parse a cron expression with a seconds field
//
// a seventh (year) field is accepted only as "*"
func ParseSchedule(text string) (cron.Schedule, error) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 0:
		return nil, fault.InvalidSchedule
	case 7:
		if "*" != fields[6] {
			return nil, fault.InvalidSchedule
		}
		fields = fields[:6]
	}

	schedule, err := parser.Parse(strings.Join(fields, " "))
	if nil != err {
		return nil, fault.InvalidSchedule
	}
	return schedule, nil
}

// DueAt - first trigger time after a registration
func DueAt(text string, created time.Time) (time.Time, error) {
	schedule, err := ParseSchedule(text)
	if nil != err {
		return time.Time{}, err
	}
	return schedule.Next(created), nil
}
