package catalog

import (
	"sort"
	"strings"

	"github.com/copypastelearn/cpl/api"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Filter keeps the courses whose title or slug fuzzily matches query, best matches first.
// An empty query returns courses unchanged.
func Filter(courses []api.CourseListItem, query string) []api.CourseListItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return courses
	}

	rank := func(course api.CourseListItem) int {
		ranks := lo.Filter([]int{
			fuzzy.RankMatchFold(query, course.Title),
			fuzzy.RankMatchFold(query, course.Slug),
		}, func(r int, _ int) bool { return r >= 0 })

		if len(ranks) == 0 {
			return -1
		}
		return lo.Min(ranks)
	}

	type ranked struct {
		course api.CourseListItem
		rank   int
	}

	matches := lo.FilterMap(courses, func(course api.CourseListItem, _ int) (ranked, bool) {
		r := rank(course)
		return ranked{course, r}, r >= 0
	})
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	return lo.Map(matches, func(m ranked, _ int) api.CourseListItem {
		return m.course
	})
}

// maxSuggestDistance bounds how different a suggestion may be from what was typed.
const maxSuggestDistance = 3

// Suggest returns the slug closest to a mistyped one.
func Suggest(slugs []string, typed string) mo.Option[string] {
	if len(slugs) == 0 {
		return mo.None[string]()
	}

	closest := lo.MinBy(slugs, func(a, b string) bool {
		return levenshtein.Distance(typed, a) < levenshtein.Distance(typed, b)
	})
	if closest == typed || levenshtein.Distance(typed, closest) > maxSuggestDistance {
		return mo.None[string]()
	}
	return mo.Some(closest)
}

// Slugs returns the slugs of courses.
func Slugs(courses []api.CourseListItem) []string {
	return lo.Map(courses, func(c api.CourseListItem, _ int) string {
		return c.Slug
	})
}
