package provider

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"regexp"
	"strings"
)

// MockProvider produces varied but reproducible text without any network
// access by hashing its inputs into a seed and picking from fixed phrase
// pools. It never fails, which makes it the integration-test backend and
// the default for bots without a credential.
type MockProvider struct{}

// NewMockProvider creates the deterministic local provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var keywordPattern = regexp.MustCompile(`[가-힣A-Za-z0-9]{2,}`)

var keywordStopwords = map[string]bool{
	"그리고": true, "하지만": true, "정말": true, "이번": true, "자동": true,
	"게시글": true, "댓글": true, "기능": true, "사용자": true, "작성": true, "공유": true,
}

func seedOf(parts ...string) uint32 {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return binary.BigEndian.Uint32(sum[:4])
}

func pick(options []string, seed uint32, offset int) string {
	return options[(int(seed)+offset)%len(options)]
}

func lastN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func extractKeyword(text string) string {
	for _, word := range keywordPattern.FindAllString(text, -1) {
		if !keywordStopwords[word] {
			return word
		}
	}
	return "이 포인트"
}

func (p *MockProvider) GeneratePost(_ context.Context, persona, topic, category, tone string, recentPosts []string) (string, error) {
	seed := seedOf(persona, topic, category, tone, strings.Join(lastN(recentPosts, 3), "|"))

	keywordPool := categoryKeywords[category]
	if len(keywordPool) == 0 {
		keywordPool = []string{topic}
	}
	keyword := pick(keywordPool, seed, 0)

	hooks := []string{
		"[" + category + "] 요즘 " + keyword + " 이슈를 보면 체감이 꽤 크더라고요.",
		"[" + category + "] " + topic + " 얘기에서 결국 " + keyword + "가 핵심이라는 생각이 들었습니다.",
		"[" + category + "] 최근 " + keyword + " 흐름 보면서 팀 운영 기준을 다시 잡았습니다.",
		"[" + category + "] " + keyword + " 관점에서 보면 예상과 다른 결과가 자주 나오네요.",
	}
	bodies := []string{
		"작게 실험해보니 숫자보다 맥락을 먼저 맞추는 쪽이 시행착오를 줄였습니다.",
		"초반엔 의견이 갈렸는데 기준을 문서로 맞춘 뒤 속도가 꽤 안정됐습니다.",
		"현장에서는 정답보다 합의 순서가 더 중요하다는 걸 다시 느꼈어요.",
		"이번 주엔 실제 사례 2개를 비교해보면서 의외의 공통점을 찾았습니다.",
	}
	endings := []string{
		"비슷한 주제 다뤄보신 분들은 어떤 기준으로 판단하시는지 궁금합니다.",
		"저는 다음엔 반대 케이스도 같이 검토해보려고 합니다.",
		"오히려 작은 변화부터 확인하는 게 리스크를 줄여주더라고요.",
		"다들 같은 상황이라면 어떤 선택을 먼저 하실 건가요?",
	}

	text := strings.TrimSpace(pick(hooks, seed, 0) + " " + pick(bodies, seed, 1) + " " + pick(endings, seed, 2))
	// Exact repeats get a disambiguating clause instead of a regenerate.
	for _, previous := range recentPosts {
		if text == previous {
			return text + " (이번엔 반례도 같이 기록해봤습니다.)", nil
		}
	}
	return text, nil
}

func (p *MockProvider) GenerateComment(_ context.Context, persona, postTitle, postCategory, postContent, tone string, recentComments []string) (string, error) {
	keyword := extractKeyword(postTitle + " " + postContent + " " + postCategory)
	seed := seedOf(persona, postTitle, postCategory, postContent, tone, strings.Join(lastN(recentComments, 3), "|"))

	reactions := []string{
		"[" + postCategory + "] " + keyword + " 지점을 먼저 짚은 건 저도 동의해요.",
		"[" + postCategory + "] " + keyword + "는 공감되는데, 적용 순서는 조금 다를 수도 있겠네요.",
		"[" + postCategory + "] 저도 " + keyword + "에서 비슷하게 막혔는데 정리 방식이 깔끔합니다.",
		"[" + postCategory + "] " + keyword + " 관점은 좋고, 반대 사례도 같이 보면 더 선명해질 듯해요.",
	}
	followups := []string{
		"실제로 해보면 첫 1주차에 뭐가 가장 크게 바뀌었는지 궁금합니다.",
		"근데 비용이나 시간 제약이 있을 때는 어떤 우선순위로 가져가셨나요?",
		"오히려 작은 단위로 나눠서 검증하면 더 빨리 합의될 수도 있겠더라고요.",
		"다음에는 실패했던 케이스도 같이 공유해주시면 토론이 더 재밌을 것 같아요.",
	}

	text := pick(reactions, seed, 0) + " " + pick(followups, seed, 1)
	for _, previous := range recentComments {
		if text == previous {
			return pick(reactions, seed, 2) + " " + pick(followups, seed, 3), nil
		}
	}
	return text, nil
}
