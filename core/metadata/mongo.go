package metadata

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wellquant/core/core/logger"
)

const platesCollection = "plates"
const wellsCollection = "wells"

// MongoProvider - plate/well metadata read from mongo. Plate layout imports
// write these collections; the pipeline only reads them.
type MongoProvider struct {
	db *mongo.Database
}

func MakeMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{db: db}
}

// ConnectMongo - connects and pings so a bad URI fails at startup, not on
// the first well lookup mid-run.
func ConnectMongo(mongoURI string, databaseName string, log logger.ILogger) (*MongoProvider, error) {
	log.Infof("Connecting to mongo db...")
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("Failed to create new mongo DB connection: %v", err)
	}

	var result bson.M
	err = client.Database("admin").RunCommand(context.TODO(), bson.D{{Key: "ping", Value: 1}}).Decode(&result)
	if err != nil {
		return nil, err
	}

	log.Infof("Successfully connected to mongo db!")
	return MakeMongoProvider(client.Database(databaseName)), nil
}

func (p *MongoProvider) Plate(plateID string) (PlateMeta, error) {
	result := PlateMeta{}
	plateResult := p.db.Collection(platesCollection).FindOne(context.TODO(), bson.M{"_id": plateID})
	if plateResult.Err() != nil {
		return result, plateResult.Err()
	}
	err := plateResult.Decode(&result)
	return result, err
}

func (p *MongoProvider) Well(plateID string, position string) (WellMeta, error) {
	result := WellMeta{}
	filter := bson.D{{Key: "plateId", Value: plateID}, {Key: "position", Value: position}}
	wellResult := p.db.Collection(wellsCollection).FindOne(context.TODO(), filter)
	if wellResult.Err() != nil {
		return result, wellResult.Err()
	}
	err := wellResult.Decode(&result)
	return result, err
}

func (p *MongoProvider) Wells(plateID string) ([]WellMeta, error) {
	filter := bson.D{{Key: "plateId", Value: plateID}}
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := p.db.Collection(wellsCollection).Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, err
	}

	result := []WellMeta{}
	err = cursor.All(context.TODO(), &result)
	return result, err
}
