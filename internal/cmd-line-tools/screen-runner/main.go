package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/wellquant/core/api/screenrun"
	"github.com/wellquant/core/core/awsutil"
	"github.com/wellquant/core/core/fileaccess"
	"github.com/wellquant/core/core/imagerepo"
	"github.com/wellquant/core/core/imagestack"
	"github.com/wellquant/core/core/logger"
	"github.com/wellquant/core/core/maskstore"
	"github.com/wellquant/core/core/metadata"
	"github.com/wellquant/core/core/segmentation"
	"github.com/wellquant/core/core/timestamper"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=   WellQuant screen runner  =")
	fmt.Println("==============================")

	ilog := &logger.StdOutLogger{}

	var argPlateID = flag.String("plate", "", "Plate ID to process")
	var argDataBucket = flag.String("data-bucket", "", "Bucket holding screen images and masks")
	var argResultsBucket = flag.String("results-bucket", "", "Bucket to write result CSVs to")
	var argResultsPath = flag.String("results-path", "results", "Path prefix for result CSVs")
	var argFlatfieldImage = flag.String("flatfield-image", "", "Optional image ID whose channels are the flatfield correction fields")
	var argMongoURI = flag.String("mongo-uri", "mongodb://localhost", "Mongo connection URI for plate metadata")
	var argMongoDatabase = flag.String("mongo-db", "wellquant", "Mongo database name")
	var argRequireStoredMasks = flag.Bool("require-stored-masks", false, "Run without a segmentation model; images lacking stored masks fail per-image")
	var argLocal = flag.Bool("local", false, "Use the local file system instead of S3 (buckets become directories)")
	var argDebug = flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	if len(*argPlateID) <= 0 {
		log.Fatalln("No plate ID specified")
	}
	if len(*argDataBucket) <= 0 || len(*argResultsBucket) <= 0 {
		log.Fatalln("Data and results buckets must be specified")
	}
	if *argDebug {
		ilog.SetLogLevel(logger.LogDebug)
	}

	var fs fileaccess.FileAccess
	if *argLocal {
		fs = &fileaccess.FSAccess{}
	} else {
		sess, err := awsutil.GetSession()
		if err != nil {
			log.Fatalf("AWS GetSession failed: %v", err)
		}
		svc, err := awsutil.GetS3(sess)
		if err != nil {
			log.Fatalf("AWS GetS3 failed: %v", err)
		}
		fs = fileaccess.MakeS3Access(svc)
	}

	meta, err := metadata.ConnectMongo(*argMongoURI, *argMongoDatabase, ilog)
	if err != nil {
		log.Fatalf("Failed to connect to mongo DB: %v", err)
	}

	repo := imagerepo.MakeStoreRepository(fs, *argDataBucket)

	// This tool carries no model endpoint, so only images with
	// already-persisted masks can be processed; anything needing fresh
	// segmentation fails per-image. Make the operator opt in rather than
	// discover that mid-run.
	if !*argRequireStoredMasks {
		log.Fatalln("No segmentation model available; pass -require-stored-masks to process only images with stored masks")
	}
	var model segmentation.Model
	ilog.Infof("Running on stored masks only, no segmentation model configured")

	engine := segmentation.MakeEngine(model, segmentation.MakeDefaultPolicy(), ilog)
	runner := screenrun.MakeRunner(repo, maskstore.MakeStore(repo, ilog), engine, meta, nil, &timestamper.UnixTimeNowStamper{}, ilog)

	flatfields := map[string]imagestack.ImageStack{}
	if len(*argFlatfieldImage) > 0 {
		plate, err := meta.Plate(*argPlateID)
		if err != nil {
			log.Fatalf("Failed to read plate %v: %v", *argPlateID, err)
		}
		_, fields, err := repo.GetImage(*argFlatfieldImage)
		if err != nil {
			log.Fatalf("Failed to read flatfield image %v: %v", *argFlatfieldImage, err)
		}
		for name, idx := range plate.Channels {
			if idx >= 0 && idx < len(fields) {
				flatfields[name] = fields[idx]
			}
		}
	}

	result, err := runner.RunPlate(*argPlateID, flatfields)
	if err != nil {
		log.Fatalf("Plate %v failed: %v", *argPlateID, err)
	}

	ilog.Infof("Plate %v: %v images processed, %v failed, %v measurement rows",
		*argPlateID, result.ImagesProcessed, result.ImagesFailed, result.Measurements.RowCount())

	if err := screenrun.SaveResults(fs, *argResultsBucket, *argResultsPath, *argPlateID, result); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	ilog.Infof("Results written to %v/%v", *argResultsBucket, *argResultsPath)
}
