// Package seed builds a small demo corpus of meeting-minute chunks so the
// CLI and API can be exercised without a production database.
package seed

import (
	"context"
	"fmt"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/embeddings"
)

// Adder is the write side a store must expose to be seedable. The sqlite
// and memory stores implement it; the postgres and qdrant stores are
// read-only and do not.
type Adder interface {
	Add(ctx context.Context, cs []chunks.Chunk) error
}

type demoMeeting struct {
	doc     chunks.Document
	texts   []string
	summary string
}

var demoMeetings = []demoMeeting{
	{
		doc: chunks.Document{
			ID:       "demo-mhlw-001",
			URL:      "https://www.mhlw.go.jp/stf/shingi/demo-iryou-dx-01.html",
			Council:  "医療DX推進本部",
			Date:     "2025-04-15",
			Ministry: "厚生労働省",
		},
		texts: []string{
			"電子カルテ情報の標準化について、全国医療情報プラットフォームの構築を進めることが確認された。",
			"マイナ保険証の利用促進に向け、医療機関への支援策を拡充する方針が示された。",
			"診療報酬改定DXにより、共通算定モジュールの開発を2026年度から段階的に導入する。",
		},
		summary: "医療DXの推進体制を確認し、電子カルテ標準化、マイナ保険証の利用促進、診療報酬改定DXの工程表を議論した。",
	},
	{
		doc: chunks.Document{
			ID:       "demo-mhlw-002",
			URL:      "https://www.mhlw.go.jp/stf/shingi/demo-hoiku-02.html",
			Council:  "社会保障審議会 保育部会",
			Date:     "2025-05-20",
			Ministry: "厚生労働省",
		},
		texts: []string{
			"保育士の処遇改善について、公定価格の人件費比率を引き上げる案が提示された。",
			"待機児童の地域偏在が続いており、都市部の受け皿整備を優先する必要があるとの意見が出た。",
		},
		summary: "保育士の処遇改善策と待機児童対策の地域差について審議した。",
	},
	{
		doc: chunks.Document{
			ID:       "demo-env-001",
			URL:      "https://www.env.go.jp/council/demo-carbon-01.html",
			Council:  "中央環境審議会 地球環境部会",
			Date:     "2025-06-10",
			Ministry: "環境省",
		},
		texts: []string{
			"2050年カーボンニュートラルの実現に向け、地域脱炭素移行の交付金事業の進捗が報告された。",
			"洋上風力発電の環境アセスメント手続の迅速化について、制度見直しの論点が整理された。",
		},
		summary: "カーボンニュートラル実現に向けた地域脱炭素事業と洋上風力アセス制度の見直しを議論した。",
	},
	{
		doc: chunks.Document{
			ID:       "demo-digital-001",
			URL:      "https://www.digital.go.jp/councils/demo-base-registry-01.html",
			Council:  "デジタル社会推進会議",
			Date:     "2025-07-01",
			Ministry: "デジタル庁",
		},
		texts: []string{
			"ベース・レジストリの整備方針について、アドレス情報の公的データ連携基盤を先行整備する。",
			"ガバメントクラウドへの地方自治体システム移行は、2025年度末までに主要20業務の移行完了を目指す。",
			"行政手続のオンライン化率の目標値と、利用率向上のためのUI改善施策が報告された。",
		},
		summary: "ベース・レジストリ整備、ガバメントクラウド移行、行政手続オンライン化の進捗を確認した。",
	},
}

// Demo embeds the built-in demo corpus with the given embedder and writes
// it to the store. It returns the number of raw chunks and summary chunks
// written. Embedding with the deterministic local provider gives the same
// vectors on every run.
func Demo(ctx context.Context, store Adder, embedder embeddings.Embedder) (int, int, error) {
	var batch []chunks.Chunk
	raws, summaries := 0, 0

	for _, m := range demoMeetings {
		for i, text := range m.texts {
			c := chunks.Chunk{
				ID:       fmt.Sprintf("%s-chunk-%03d", m.doc.ID, i),
				Document: m.doc,
				Ordinal:  i,
				Text:     text,
				Mode:     chunks.ModeRaw,
			}

			vec, err := embedder.Embed(ctx, text)
			if err != nil {
				return 0, 0, fmt.Errorf("embedding chunk %s: %w", c.ID, err)
			}
			c.Embedding = vec

			batch = append(batch, c)
			raws++
		}

		s := chunks.Chunk{
			ID:       m.doc.ID + "-summary",
			Document: m.doc,
			Ordinal:  0,
			Summary:  m.summary,
			Mode:     chunks.ModeSummary,
		}

		vec, err := embedder.Embed(ctx, m.summary)
		if err != nil {
			return 0, 0, fmt.Errorf("embedding summary for %s: %w", m.doc.ID, err)
		}
		s.Embedding = vec

		batch = append(batch, s)
		summaries++
	}

	if err := store.Add(ctx, batch); err != nil {
		return 0, 0, fmt.Errorf("writing demo corpus: %w", err)
	}

	return raws, summaries, nil
}
