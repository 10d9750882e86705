package service

import (
	"fmt"
	"geodrive-insight/internal/dto"
	"geodrive-insight/internal/helper"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/utils"
	"math"
	"time"
)

// BetterModelTie is reported when neither product leads.
const BetterModelTie = "Tie"

func calculateBreakdown(positive, negative, neutral int64) dto.SentimentBreakdown {
	total := positive + negative + neutral
	return dto.SentimentBreakdown{
		Positive:        positive,
		Negative:        negative,
		Neutral:         neutral,
		Total:           total,
		PositivePercent: utils.Percent(positive, total),
		NegativePercent: utils.Percent(negative, total),
		NeutralPercent:  utils.Percent(neutral, total),
	}
}

func addCount(b *dto.SentimentBreakdown, sentiment string, count int64) {
	switch sentiment {
	case dto.SentimentPositive:
		b.Positive += count
	case dto.SentimentNegative:
		b.Negative += count
	default:
		b.Neutral += count
	}
}

func finalizeBreakdown(b dto.SentimentBreakdown) dto.SentimentBreakdown {
	return calculateBreakdown(b.Positive, b.Negative, b.Neutral)
}

func calculateTrendWindow(reviews []model.Review) dto.TrendWindow {
	w := dto.TrendWindow{Size: len(reviews)}
	for _, r := range reviews {
		switch r.Sentiment {
		case dto.SentimentPositive:
			w.Positive++
		case dto.SentimentNegative:
			w.Negative++
		}
	}
	if w.Size > 0 {
		w.Score = roundScore(float64(w.Positive-w.Negative) / float64(w.Size))
	}
	return w
}

// roundScore keeps four decimals so deltas near the threshold are not
// decided by float noise.
func roundScore(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func classifyTrend(delta, threshold float64) dto.TrendDirection {
	switch {
	case delta > threshold:
		return dto.TrendImproving
	case delta < -threshold:
		return dto.TrendDeclining
	default:
		return dto.TrendStable
	}
}

// calculateWindowTrend splits reviews into (now-2w, now-w] and (now-w, now].
func calculateWindowTrend(reviews []model.Review, now time.Time, windowDays int, threshold float64) dto.TrendResult {
	recentFrom := now.AddDate(0, 0, -windowDays)
	previousFrom := recentFrom.AddDate(0, 0, -windowDays)

	var recent, previous []model.Review
	for _, r := range reviews {
		switch {
		case r.CreatedAt.After(recentFrom) && !r.CreatedAt.After(now):
			recent = append(recent, r)
		case r.CreatedAt.After(previousFrom) && !r.CreatedAt.After(recentFrom):
			previous = append(previous, r)
		}
	}

	recentWindow := calculateTrendWindow(recent)
	recentWindow.From, recentWindow.To = utils.ToPointer(recentFrom), utils.ToPointer(now)
	previousWindow := calculateTrendWindow(previous)
	previousWindow.From, previousWindow.To = utils.ToPointer(previousFrom), utils.ToPointer(recentFrom)

	return buildTrend(dto.TrendModeWindow, recentWindow, previousWindow, threshold)
}

// calculateSplitTrend compares the older half of time-ordered reviews with the
// newer half. With an odd count the newer half gets the extra review.
func calculateSplitTrend(reviews []model.Review, threshold float64) dto.TrendResult {
	mid := len(reviews) / 2
	previous, recent := reviews[:mid], reviews[mid:]

	previousWindow := calculateTrendWindow(previous)
	if len(previous) > 0 {
		previousWindow.From = utils.ToPointer(previous[0].CreatedAt)
		previousWindow.To = utils.ToPointer(previous[len(previous)-1].CreatedAt)
	}
	recentWindow := calculateTrendWindow(recent)
	if len(recent) > 0 {
		recentWindow.From = utils.ToPointer(recent[0].CreatedAt)
		recentWindow.To = utils.ToPointer(recent[len(recent)-1].CreatedAt)
	}

	return buildTrend(dto.TrendModeSplit, recentWindow, previousWindow, threshold)
}

func buildTrend(mode string, recent, previous dto.TrendWindow, threshold float64) dto.TrendResult {
	delta := roundScore(recent.Score - previous.Score)
	return dto.TrendResult{
		Mode:      mode,
		Recent:    recent,
		Previous:  previous,
		Delta:     delta,
		Threshold: threshold,
		Direction: classifyTrend(delta, threshold),
	}
}

// calculateFeatureShares turns bucket counts into percentages of all
// feature mentions, in helper.FeatureTopics order.
func calculateFeatureShares(counts map[string]int64) []dto.FeatureShare {
	var total int64
	for _, c := range counts {
		total += c
	}

	shares := make([]dto.FeatureShare, 0, len(helper.FeatureTopics()))
	for _, feature := range helper.FeatureTopics() {
		shares = append(shares, dto.FeatureShare{
			Feature: feature,
			Percent: utils.Percent(counts[feature], total),
		})
	}
	return shares
}

// calculateFeatureGaps writes one sentence per feature whose share differs by
// more than threshold percentage points.
func calculateFeatureGaps(name1 string, shares1 []dto.FeatureShare, name2 string, shares2 []dto.FeatureShare, threshold int) []string {
	byFeature := make(map[string]int, len(shares2))
	for _, s := range shares2 {
		byFeature[s.Feature] = s.Percent
	}

	insights := []string{}
	for _, s := range shares1 {
		other := byFeature[s.Feature]
		switch diff := s.Percent - other; {
		case diff > threshold:
			insights = append(insights, fmt.Sprintf("%s is praised more for %s (%d%% vs %d%%)", name1, s.Feature, s.Percent, other))
		case -diff > threshold:
			insights = append(insights, fmt.Sprintf("%s is praised more for %s (%d%% vs %d%%)", name2, s.Feature, other, s.Percent))
		}
	}
	return insights
}

// calculateBetterModel prefers the higher positive percentage, then the
// larger review count.
func calculateBetterModel(a, b dto.ProductSummary) string {
	switch {
	case a.PositivePercent > b.PositivePercent:
		return a.ModelName
	case b.PositivePercent > a.PositivePercent:
		return b.ModelName
	case a.TotalReviews > b.TotalReviews:
		return a.ModelName
	case b.TotalReviews > a.TotalReviews:
		return b.ModelName
	default:
		return BetterModelTie
	}
}
