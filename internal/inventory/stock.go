package inventory

import (
	"context"
	"fmt"

	"event-inventory/internal/models"

	"gorm.io/gorm"
)

// signedQuantity is the ledger contribution of one transaction row.
const signedQuantity = "CASE WHEN %[1]stype = ? THEN %[1]squantity WHEN %[1]stype = ? THEN -%[1]squantity ELSE 0 END"

func stockDeltaExpr(alias string) string {
	return "CAST(COALESCE(SUM(" + fmt.Sprintf(signedQuantity, alias) + "), 0) AS BIGINT)"
}

// stockOf derives the stock of article from the ledger as seen by tx.
func stockOf(tx *gorm.DB, article *models.Article) (int64, error) {
	var row struct {
		Delta int64
	}
	err := tx.Model(&models.Transaction{}).
		Select(stockDeltaExpr("")+" AS delta", models.TransactionBuy, models.TransactionSell).
		Where("article_id = ?", article.ID).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return article.InitialQuantity + row.Delta, nil
}

// ComputeStock returns initial quantity plus buys minus sells for one article.
// The result is not floored at zero.
func (s *Service) ComputeStock(ctx context.Context, articleID uint) (int64, error) {
	db := s.db.WithContext(ctx)

	var article models.Article
	if err := db.First(&article, articleID).Error; err != nil {
		return 0, lookupErr(err, ErrUnknownArticle)
	}
	return stockOf(db, &article)
}

type articleStockRow struct {
	models.Article
	Stock int64
}

// ListArticlesWithStock returns every article with its stock, ordered by id,
// in one grouped query over the ledger.
func (s *Service) ListArticlesWithStock(ctx context.Context) ([]models.ArticleStock, error) {
	var rows []articleStockRow
	err := s.db.WithContext(ctx).
		Table("articles AS a").
		Select("a.id, a.name, a.category, a.price, a.initial_quantity, a.created_at, a.updated_at, "+
			"a.initial_quantity + "+stockDeltaExpr("t.")+" AS stock",
			models.TransactionBuy, models.TransactionSell).
		Joins("LEFT JOIN transactions AS t ON t.article_id = a.id").
		Group("a.id, a.name, a.category, a.price, a.initial_quantity, a.created_at, a.updated_at").
		Order("a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list articles with stock: %w", err)
	}

	items := make([]models.ArticleStock, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.ArticleStock{Article: r.Article, Stock: r.Stock})
	}
	return items, nil
}
