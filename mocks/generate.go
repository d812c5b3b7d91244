package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-marketsim/internal/marketdata Provider
//go:generate mockgen -destination=./mock_downloader.go -package=mocks -mock_names=Provider=MockDownloader github.com/rxtech-lab/argo-marketsim/pkg/marketdata/provider Provider
