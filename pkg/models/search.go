package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	gravatarURL = "https://secure.gravatar.com/avatar/%s?d=" +
		"https://a248.e.akamai.net/assets.github.com%%2Fimages%%2Fgravatars%%2Fgravatar-140.png"
	legacyLabelURL = "https://api.github.com/repos/%s/%s/labels/%s"
	legacyUserURL  = "https://api.github.com/users/%s"
)

// legacyTimestampLayouts covers the legacy search API's timestamp format.
var legacyTimestampLayouts = []string{
	"2006/01/02 15:04:05 -0700",
	"2006/01/02 15:04:05 MST",
}

// FromSearch reshapes an issue from the legacy search API so it can be
// rendered like a regular issue: user and closed_by become user records,
// label names become label records, and timestamps are normalised.
func FromSearch(obj Record) (Record, error) {
	htmlURL, err := obj.String("html_url")
	if err != nil {
		return nil, err
	}
	owner, project, err := ownerProject(htmlURL)
	if err != nil {
		return nil, err
	}
	login, err := obj.String("user")
	if err != nil {
		return nil, err
	}
	gravatar, _ := obj.String("gravatar_id")

	d := make(Record, len(obj)+2)
	for k, v := range obj {
		d[k] = v
	}
	d["id"] = "<from search>"
	d["user"] = legacyUser(login, gravatar)

	if obj.Has("closed_by") {
		closer, _ := obj.String("closed_by")
		if closer == "" {
			closer = login
		}
		d["closed_by"] = legacyUser(closer, gravatar)
		if d["closed_at"], err = legacyTimestamp(obj, "closed_at"); err != nil {
			return nil, err
		}
	}
	for _, key := range []string{"created_at", "updated_at"} {
		if d[key], err = legacyTimestamp(obj, key); err != nil {
			return nil, err
		}
	}

	if names, ok := obj["labels"].([]any); ok {
		labels := make([]any, 0, len(names))
		for _, n := range names {
			name, ok := text(n)
			if !ok {
				return nil, &FieldError{Kind: obj.Kind(), Field: "labels", Want: "array of strings", Got: n}
			}
			labels = append(labels, Record{
				"color": "000000",
				"name":  name,
				"url":   fmt.Sprintf(legacyLabelURL, owner, project, url.PathEscape(name)),
				KindKey: "Label",
			})
		}
		d["labels"] = labels
	}
	d[KindKey] = "issue"
	return d, nil
}

func legacyUser(login, gravatar string) Record {
	return Record{
		"avatar_url":  fmt.Sprintf(gravatarURL, gravatar),
		"gravatar_id": gravatar,
		"login":       login,
		"url":         fmt.Sprintf(legacyUserURL, login),
		KindKey:       "User",
	}
}

// legacyTimestamp accepts an already bound time, an ISO-8601 string, or the
// legacy "2006/01/02 15:04:05 -0700" form.
func legacyTimestamp(obj Record, key string) (any, error) {
	v, err := obj.Get(key)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Timestamp:
		return t, nil
	case time.Time:
		return canonicalTimestamp(t), nil
	case string:
		if ts, ok := ParseTimestamp(t); ok {
			return Timestamp{Time: ts, Raw: t}, nil
		}
		for _, layout := range legacyTimestampLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return canonicalTimestamp(ts), nil
			}
		}
	}
	return nil, &FieldError{Kind: obj.Kind(), Field: key, Want: "timestamp", Got: v}
}

func canonicalTimestamp(t time.Time) Timestamp {
	t = t.UTC()
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339)}
}

func ownerProject(htmlURL string) (string, string, error) {
	// https://github.com/{owner}/{project}/issues/{n}
	parts := strings.Split(htmlURL, "/")
	if len(parts) < 5 || parts[3] == "" || parts[4] == "" {
		return "", "", &FieldError{Kind: "issue", Field: "html_url", Want: "issue URL", Got: htmlURL}
	}
	return parts[3], parts[4], nil
}
