package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/pkg/database"
)

func init() {
	Register("tools", SeedTools)
}

// SeedTools inserts a starter catalog. Skips tools that already exist by
// name, so reruns are safe.
func SeedTools(ctx context.Context, db *database.Mongo) error {
	col := db.Collection(database.ToolsCollection)

	catalog := []models.Tool{
		{
			Name:        "Canon EOS R6 Mark II",
			Description: "24MP full-frame mirrorless body with in-body stabilization.",
			Price:       2499.00,
			Quantity:    40,
			MinOrder:    1,
		},
		{
			Name:        "Sigma 35mm f/1.4 DG DN Art",
			Description: "Fast wide prime for full-frame mirrorless mounts.",
			Price:       899.00,
			Quantity:    60,
			MinOrder:    1,
		},
		{
			Name:        "Manfrotto MT055XPRO3 Tripod",
			Description: "Aluminium three-section tripod with 90° column.",
			Price:       229.95,
			Quantity:    120,
			MinOrder:    2,
		},
		{
			Name:        "Godox AD200 Pro",
			Description: "200Ws pocket flash with interchangeable heads.",
			Price:       349.00,
			Quantity:    80,
			MinOrder:    1,
		},
		{
			Name:        "SanDisk Extreme PRO 128GB SDXC",
			Description: "UHS-II card, 300MB/s reads for burst shooting.",
			Price:       109.99,
			Quantity:    500,
			MinOrder:    5,
		},
		{
			Name:        "Peak Design Everyday Backpack 30L",
			Description: "Weatherproof camera backpack with FlexFold dividers.",
			Price:       289.95,
			Quantity:    75,
			MinOrder:    1,
		},
	}

	for _, tool := range catalog {
		count, err := col.CountDocuments(ctx, bson.M{"name": tool.Name})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := col.InsertOne(ctx, tool); err != nil {
			return err
		}
	}
	return nil
}
