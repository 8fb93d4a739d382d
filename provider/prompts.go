package provider

import (
	"fmt"
	"strings"
)

const postPromptTemplate = `너는 SNS 자동화 봇의 콘텐츠 작성기다.
[페르소나]
%s

[주제]
%s

[카테고리]
%s

[톤]
%s

[최근 작성한 게시글 — 같은 표현을 반복하지 말 것]
%s

요구사항:
1) 한국어 1~2문장
2) 과장 금지, 실무형 문장
3) 해시태그는 최대 2개
`

const commentPromptTemplate = `너는 SNS 자동화 봇의 댓글 작성기다.
[페르소나]
%s

[게시글 제목]
%s

[게시글 카테고리]
%s

[게시글 내용]
%s

[톤]
%s

[최근 작성한 댓글 — 같은 표현을 반복하지 말 것]
%s

요구사항:
1) 한국어 1~2문장
2) 게시글 내용에 대한 구체적인 반응일 것
3) 과장 금지, 실무형 문장
`

// renderRecentList formats recent outputs as a bulleted avoid-list for
// the prompt, newest last. The last five entries are enough context.
func renderRecentList(recent []string) string {
	if len(recent) > 5 {
		recent = recent[:5]
	}
	if len(recent) == 0 {
		return "- 없음"
	}
	lines := make([]string, 0, len(recent))
	for _, item := range recent {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func renderPostPrompt(persona, topic, category, tone string, recentPosts []string) string {
	return fmt.Sprintf(postPromptTemplate, persona, topic, category, tone, renderRecentList(recentPosts))
}

func renderCommentPrompt(persona, postTitle, postCategory, postContent, tone string, recentComments []string) string {
	return fmt.Sprintf(commentPromptTemplate, persona, postTitle, postCategory, postContent, tone, renderRecentList(recentComments))
}
