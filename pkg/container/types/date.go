// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"strings"
	"sync"
	gotime "time"
	_ "time/tzdata"

	"github.com/matrixorigin/mo-vexec/pkg/common/moerr"
)

const (
	secsPerDay = 24 * 60 * 60

	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Date is the number of days since 1970-01-01.
type Date int32

// Datetime is DateTime32: seconds since the unix epoch.
type Datetime uint32

// Timestamp is DateTime64: microseconds since the unix epoch.
type Timestamp int64

var locations sync.Map

// GetLocation resolves a timezone name, "" is UTC. Results are cached.
func GetLocation(tz string) (*gotime.Location, error) {
	if tz == "" || strings.EqualFold(tz, "UTC") {
		return gotime.UTC, nil
	}
	if loc, ok := locations.Load(tz); ok {
		return loc.(*gotime.Location), nil
	}
	loc, err := gotime.LoadLocation(tz)
	if err != nil {
		return nil, moerr.NewInvalidInputNoCtx("invalid timezone '%s'", tz)
	}
	locations.Store(tz, loc)
	return loc, nil
}

func DateFromCalendar(year int, month gotime.Month, day int) Date {
	t := gotime.Date(year, month, day, 0, 0, 0, 0, gotime.UTC)
	return Date(t.Unix() / secsPerDay)
}

func ParseDate(s string) (Date, error) {
	t, err := gotime.ParseInLocation(dateLayout, strings.TrimSpace(s), gotime.UTC)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtx("invalid date value '%s'", s)
	}
	return Date(floorDiv(t.Unix(), secsPerDay)), nil
}

func (d Date) ToTime() gotime.Time {
	return gotime.Unix(int64(d)*secsPerDay, 0).UTC()
}

func (d Date) String() string {
	return d.ToTime().Format(dateLayout)
}

// ParseDatetime reads "YYYY-MM-DD[ HH:MM:SS]" in loc.
func ParseDatetime(s string, loc *gotime.Location) (Datetime, error) {
	s = strings.TrimSpace(s)
	layout := datetimeLayout
	if len(s) == len(dateLayout) {
		layout = dateLayout
	}
	t, err := gotime.ParseInLocation(layout, s, loc)
	if err != nil || t.Unix() < 0 || t.Unix() > int64(^uint32(0)) {
		return 0, moerr.NewInvalidInputNoCtx("invalid datetime value '%s'", s)
	}
	return Datetime(t.Unix()), nil
}

func (dt Datetime) ToTime(loc *gotime.Location) gotime.Time {
	return gotime.Unix(int64(dt), 0).In(loc)
}

func (dt Datetime) Format(loc *gotime.Location) string {
	return dt.ToTime(loc).Format(datetimeLayout)
}

func (dt Datetime) String() string {
	return dt.Format(gotime.UTC)
}

// ParseTimestamp reads "YYYY-MM-DD HH:MM:SS[.ffffff]" in loc.
func ParseTimestamp(s string, loc *gotime.Location) (Timestamp, error) {
	s = strings.TrimSpace(s)
	layout := "2006-01-02 15:04:05.999999"
	if len(s) == len(dateLayout) {
		layout = dateLayout
	}
	t, err := gotime.ParseInLocation(layout, s, loc)
	if err != nil {
		return 0, moerr.NewInvalidInputNoCtx("invalid timestamp value '%s'", s)
	}
	return Timestamp(t.UnixMicro()), nil
}

func (ts Timestamp) ToTime(loc *gotime.Location) gotime.Time {
	return gotime.UnixMicro(int64(ts)).In(loc)
}

// Format prints ts with precision fractional digits.
func (ts Timestamp) Format(loc *gotime.Location, precision int32) string {
	layout := datetimeLayout
	if precision > 0 {
		if precision > 6 {
			precision = 6
		}
		layout += "." + strings.Repeat("0", int(precision))
	}
	return ts.ToTime(loc).Format(layout)
}

func (ts Timestamp) String() string {
	return ts.Format(gotime.UTC, 6)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
