package extractor

import (
	"testing"

	"geodrive-insight/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeTopic(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Mileage", want: dto.TopicMileage},
		{raw: "fuel efficiency", want: dto.TopicMileage},
		{raw: "engine performance", want: dto.TopicEngine},
		{raw: "after-sales service cost", want: dto.TopicService},
		{raw: "too expensive", want: dto.TopicPrice},
		{raw: "seat comfort", want: dto.TopicComfort},
		{raw: "acceleration", want: dto.TopicPerformance},
		{raw: "Airbags", want: dto.TopicSafety},
		{raw: "exterior design", want: dto.TopicDesign},
		{raw: "infotainment system", want: dto.TopicFeatures},
		{raw: "parse_error", want: dto.TopicOther},
		{raw: "new launch", want: dto.TopicOther},
		{raw: "", want: dto.TopicOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeTopic(tt.raw))
		})
	}
}

func TestMatchTopics_ReturnsEveryMatch(t *testing.T) {
	got := MatchTopics("Great mileage, comfortable seats and a fair price")

	assert.Equal(t, []string{dto.TopicMileage, dto.TopicPrice, dto.TopicComfort}, got)
}

func TestTopics_ClosedVocabulary(t *testing.T) {
	topics := Topics()

	assert.Len(t, topics, 10)
	assert.Equal(t, dto.TopicOther, topics[len(topics)-1])
	assert.True(t, IsTopic(dto.TopicSafety))
	assert.False(t, IsTopic("parse_error"))
}
