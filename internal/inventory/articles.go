package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"event-inventory/internal/models"
	"event-inventory/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleInput carries the editable fields of an article.
type ArticleInput struct {
	Name            string
	Category        string
	Price           int64
	InitialQuantity int64
}

func (in *ArticleInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := util.ValidateName(in.Name, models.NameSize); err != nil {
		return NewValidationError("name", err.Error())
	}
	if in.Category != "" {
		if err := util.ValidateName(in.Category, models.CategorySize); err != nil {
			return NewValidationError("category", err.Error())
		}
	}
	if in.Price < -MaxPrice || in.Price > MaxPrice {
		return NewValidationError("price", fmt.Sprintf("must be within ±%d", MaxPrice))
	}
	if in.InitialQuantity < -MaxStock || in.InitialQuantity > MaxStock {
		return NewValidationError("initial_quantity", fmt.Sprintf("must be within ±%d", MaxStock))
	}
	return nil
}

// AddArticle registers a new article.
func (s *Service) AddArticle(ctx context.Context, in ArticleInput) (*models.Article, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	article := models.Article{
		Name:            in.Name,
		Category:        in.Category,
		Price:           in.Price,
		InitialQuantity: in.InitialQuantity,
	}
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	s.committed(ctx, "article.created", articleKey(article.ID), article)
	return &article, nil
}

// EditArticle overwrites name, category, price and initial quantity in place.
// Recorded transactions are left untouched. An unknown id changes nothing and
// yields ErrUnknownArticle.
func (s *Service) EditArticle(ctx context.Context, id uint, in ArticleInput) (*models.Article, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	unlock := s.lockArticle(id)

	var article models.Article
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&article, id).Error; err != nil {
			return lookupErr(err, ErrUnknownArticle)
		}
		article.Name = in.Name
		article.Category = in.Category
		article.Price = in.Price
		article.InitialQuantity = in.InitialQuantity
		if err := tx.Save(&article).Error; err != nil {
			return fmt.Errorf("update article: %w", err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.committed(ctx, "article.updated", articleKey(article.ID), article)
	return &article, nil
}

// DeleteArticle removes the article and, in the same transaction, every
// ledger row referencing it.
func (s *Service) DeleteArticle(ctx context.Context, id uint) error {
	unlock := s.lockArticle(id)

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&article, id).Error; err != nil {
			return lookupErr(err, ErrUnknownArticle)
		}

		res := tx.Where("article_id = ?", id).Delete(&models.Transaction{})
		if res.Error != nil {
			return fmt.Errorf("delete article transactions: %w", res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Delete(&article).Error; err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		return nil
	})
	unlock()
	if err != nil {
		return err
	}

	s.logger.Info().Uint("article_id", id).Int64("transactions_removed", removed).Msg("article deleted")
	s.committed(ctx, "article.deleted", articleKey(id), map[string]any{
		"id":                   id,
		"transactions_removed": removed,
	})
	return nil
}

func articleKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
