package domain

// TopicGroup is one section of the library view.
type TopicGroup struct {
	Topic     Topic      `json:"topic"`
	Count     int        `json:"count"`
	Resources []Resource `json:"resources"`
}

// GroupByTopic folds records into topic groups. Groups appear in the order
// their topic is first seen and keep the input order of their records, so a
// newest-first input yields newest-first groups. Records without a topic land
// in "Uncategorized".
func GroupByTopic(resources []Resource) []TopicGroup {
	groups := []TopicGroup{}
	index := make(map[Topic]int)
	for _, r := range resources {
		topic := r.Topic
		if topic == "" {
			topic = TopicUncategorized
		}
		i, ok := index[topic]
		if !ok {
			i = len(groups)
			index[topic] = i
			groups = append(groups, TopicGroup{Topic: topic})
		}
		groups[i].Resources = append(groups[i].Resources, r)
		groups[i].Count++
	}
	return groups
}
