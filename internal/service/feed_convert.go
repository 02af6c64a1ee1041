package service

import (
	"github.com/purinorder/purinorder/internal/feed"
	"github.com/purinorder/purinorder/internal/models"
)

// feedProductToModel converts one feed row into a catalog product. Feed rows
// never carry cost accounting fields.
func feedProductToModel(fp feed.Product) models.Product {
	p := models.Product{
		ID:            fp.ID,
		Name:          fp.Name,
		Price:         models.NewMoneyFromInt(fp.Price),
		DisplayPrice:  fp.DisplayPrice,
		Category:      fp.Category,
		Subcategory:   fp.Subcategory,
		Status:        fp.Status,
		Master:        fp.Master,
		OrderDeadline: fp.OrderDeadline,
		Images:        models.StringArray(fp.Images),
		Stock:         fp.Stock,
		FromFeed:      true,
	}
	if p.Status == "" {
		p.Status = "Sẵn"
	}
	if len(fp.OptionGroups) > 0 {
		groups := make([]interface{}, 0, len(fp.OptionGroups))
		for _, g := range fp.OptionGroups {
			opts := make([]interface{}, 0, len(g.Options))
			for _, o := range g.Options {
				opts = append(opts, o)
			}
			groups = append(groups, map[string]interface{}{
				"name":    g.Name,
				"options": opts,
			})
		}
		p.OptionGroups = models.JSON{"groups": groups}
	}
	if len(fp.VariantImages) > 0 {
		vi := make(models.JSON, len(fp.VariantImages))
		for name, idx := range fp.VariantImages {
			vi[name] = idx
		}
		p.VariantImages = vi
	}
	for _, v := range fp.Variants {
		p.Variants = append(p.Variants, models.ProductVariant{
			ProductID: fp.ID,
			Name:      v.Name,
			Price:     models.NewMoneyFromInt(v.Price),
			Stock:     v.Stock,
		})
	}
	return p
}

// modelToFeedProduct converts a catalog product back into a feed row for
// pushes. Variant image indexes are flattened into the name keyed map the
// sheet expects.
func modelToFeedProduct(p *models.Product) feed.Product {
	fp := feed.Product{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price.IntPart(),
		DisplayPrice:  p.DisplayPrice,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Status:        p.Status,
		Master:        p.Master,
		OrderDeadline: p.OrderDeadline,
		Images:        []string(p.Images),
		Stock:         p.Stock,
	}
	for _, v := range p.Variants {
		fv := feed.ProductVariant{
			Name:  v.Name,
			Price: v.Price.IntPart(),
			Stock: v.Stock,
		}
		fp.Variants = append(fp.Variants, fv)
		if v.ImageIndex != nil {
			if fp.VariantImages == nil {
				fp.VariantImages = make(map[string]int)
			}
			fp.VariantImages[v.Name] = *v.ImageIndex
		}
	}
	if groups, ok := p.OptionGroups["groups"].([]interface{}); ok {
		for _, raw := range groups {
			g, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			og := feed.OptionGroup{}
			if name, ok := g["name"].(string); ok {
				og.Name = name
			}
			if opts, ok := g["options"].([]interface{}); ok {
				for _, o := range opts {
					if s, ok := o.(string); ok {
						og.Options = append(og.Options, s)
					}
				}
			}
			fp.OptionGroups = append(fp.OptionGroups, og)
		}
	}
	return fp
}
