package mqtt5

import "strings"

// ValidateTopicName checks a PUBLISH topic name: must be non-empty and must
// not itself contain wildcard characters.
func ValidateTopicName(topic string) error {
	if len(topic) == 0 {
		return ErrInvalidTopic
	}
	if strings.IndexByte(topic, '#') >= 0 || strings.IndexByte(topic, '+') >= 0 {
		return ErrInvalidTopic
	}
	return nil
}

// ValidateTopicFilter checks a SUBSCRIBE/UNSUBSCRIBE topic filter, including
// the "#" and "+" wildcard placement rules and the "$share/<group>/<filter>"
// shared-subscription form.
func ValidateTopicFilter(filter string) error {
	if len(filter) == 0 {
		return ErrInvalidTopic
	}
	rest := filter
	if group, ok := sharedGroup(filter); ok {
		if len(group) == 0 || isWildcard(group) {
			return ErrInvalidTopic
		}
		rest = filter[len("$share/")+len(group)+1:]
		if len(rest) == 0 {
			return ErrInvalidTopic
		}
	}
	return validateWildcards(strings.Split(rest, "/"))
}

// sharedGroup reports whether filter uses the "$share/<group>/..." form and,
// if so, returns the group name.
func sharedGroup(filter string) (group string, ok bool) {
	const prefix = "$share/"
	if !strings.HasPrefix(filter, prefix) {
		return "", false
	}
	rest := filter[len(prefix):]
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return rest, true
	}
	return rest[:i], true
}

// activeSubscription is one filter the session currently believes the
// broker has granted, kept so inbound PUBLISHes can be tagged with the
// filter(s) that caused the broker to deliver them.
type activeSubscription struct {
	filter string
	parts  []string
	qos    QoSLevel
}

// splitFilterParts returns the "/"-split segments of filter used for
// matching, with a leading "$share/<group>/" stripped since shared-
// subscription grouping plays no part in whether a delivered topic
// satisfies the filter.
func splitFilterParts(filter string) []string {
	rest := filter
	if group, ok := sharedGroup(filter); ok {
		rest = filter[len("$share/")+len(group)+1:]
	}
	return strings.Split(rest, "/")
}

// matchingFilters returns the filter strings among subs whose parts satisfy
// topic, in subscription order.
func matchingFilters(subs []activeSubscription, topic string) []string {
	if len(subs) == 0 {
		return nil
	}
	topicParts := strings.Split(topic, "/")
	var matched []string
	for _, sub := range subs {
		if topicMatches(sub.parts, topicParts) {
			matched = append(matched, sub.filter)
		}
	}
	return matched
}

// topicMatches reports whether a published topic's parts satisfy a filter's
// parts, honoring "+" (single level) and "#" (multi level, trailing only).
func topicMatches(filterParts, topicParts []string) bool {
	i := 0
	for i < len(topicParts) {
		if i >= len(filterParts) {
			return false
		}
		if filterParts[i] == "#" {
			return true
		}
		if topicParts[i] != filterParts[i] && filterParts[i] != "+" {
			return false
		}
		i++
	}
	return i == len(filterParts)-1 && filterParts[len(filterParts)-1] == "#" || i == len(filterParts)
}

func isWildcard(topic string) bool {
	return strings.IndexByte(topic, '#') >= 0 || strings.IndexByte(topic, '+') >= 0
}

func validateWildcards(parts []string) error {
	for i, part := range parts {
		if isWildcard(part) && len(part) != 1 {
			return ErrInvalidTopic // malformed wildcard of style "finance#"
		}
		isSingleHash := len(part) == 1 && part[0] == '#'
		if isSingleHash && i != len(parts)-1 {
			return ErrInvalidTopic // "#" can only occur as the last part
		}
	}
	return nil
}
