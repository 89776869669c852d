package router

import (
	"regexp"
	"strings"

	"github.com/ternarybob/callwatch/internal/models"
)

// Syslog line formats produced by the router:
//
//	2023/01/21 17:03:31: PP[01] IP Commencing (DNS Query [ssl.gstatic.com] from 192.168.0.99)
//	2023/02/01 20:12:37: [SIP] SIP Call to [sip:10@192.168.0.1] from [sip:0123456789].
//	2023/02/01 20:12:52: [SIP] SIP Call from [sip:0123456789@192.168.0.1] to [sip:10@192.168.0.1] connected.
//	2023/02/01 20:14:27: [SIP] SIP Call from [sip:0123456789@192.168.0.1] to [sip:10@192.168.0.1] disconnected Normally (0).
var (
	lineRegex = regexp.MustCompile(`^(?P<date>\d{4}/\d{2}/\d{2}) (?P<time>\d{2}:\d{2}:\d{2}): (?P<message>.*)$`)

	sipCallToRegex   = regexp.MustCompile(`^\[SIP\] SIP Call to \[(?P<to>.+)\] from \[(?P<from>.+)\](?P<status>.+)?\.$`)
	sipCallFromRegex = regexp.MustCompile(`^\[SIP\] SIP Call from \[(?P<from>.+)\] to \[(?P<to>.+)\](?P<status>.+)?\.$`)

	// sip:0123456789@192.168.0.1 / sip:10@192.168.0.1 / sip:0123456789
	sipURIRegex = regexp.MustCompile(`^sip:(?P<number>.+?)(@.+)?$`)
)

// ParseSyslog splits normalized syslog text into timestamped records.
// A line matching "<date> <time>: <message>" opens a new record; any
// other line is a continuation and is appended to the open record's
// message with a newline. Lines before the first timestamped line are
// dropped. The format is not a contract this system controls, so
// nothing here ever fails.
func ParseSyslog(text string) []models.SyslogLine {
	var items []models.SyslogLine
	var current *models.SyslogLine

	for _, line := range strings.Split(text, "\n") {
		match := lineRegex.FindStringSubmatch(line)
		if match != nil {
			if current != nil {
				items = append(items, *current)
			}
			current = &models.SyslogLine{
				Date:    match[1],
				Time:    match[2],
				Message: match[3],
			}
		} else if current != nil {
			current.Message += "\n" + line
		}
	}
	if current != nil {
		items = append(items, *current)
	}

	return items
}

// ExtractCalls matches SIP call-signaling messages and builds call
// events. Non-matching records are skipped silently. Order is
// preserved: the result stays newest first, as the log reports it.
func ExtractCalls(lines []models.SyslogLine) []models.CallEvent {
	var calls []models.CallEvent

	for _, item := range lines {
		if match := sipCallToRegex.FindStringSubmatch(item.Message); match != nil {
			calls = append(calls, models.CallEvent{
				Date:       item.Date,
				Time:       item.Time,
				Direction:  models.DirectionOutgoing,
				To:         match[1],
				ToNumber:   sipNumber(match[1]),
				From:       match[2],
				FromNumber: sipNumber(match[2]),
				Status:     parseStatus(match[3]),
			})
		} else if match := sipCallFromRegex.FindStringSubmatch(item.Message); match != nil {
			calls = append(calls, models.CallEvent{
				Date:       item.Date,
				Time:       item.Time,
				Direction:  models.DirectionIncoming,
				From:       match[1],
				FromNumber: sipNumber(match[1]),
				To:         match[2],
				ToNumber:   sipNumber(match[2]),
				Status:     parseStatus(match[3]),
			})
		}
	}

	return calls
}

// sipNumber strips the sip: prefix and any @host suffix. Returns ""
// when the URI carries no extractable number.
func sipNumber(uri string) string {
	match := sipURIRegex.FindStringSubmatch(uri)
	if match == nil {
		return ""
	}
	return match[1]
}

// parseStatus classifies the trailing status text of a SIP call line.
// Anything unrecognized is treated as a connection attempt rather than
// an error.
func parseStatus(raw string) models.CallStatus {
	status := strings.TrimSpace(raw)
	if status == "" {
		return models.StatusConnecting
	}
	if status == "connected" {
		return models.StatusConnected
	}
	if strings.HasPrefix(status, "disconnected") {
		return models.StatusDisconnected
	}
	return models.StatusConnecting
}
