package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/season --output domain/season --outpkg seasonmock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Session --dir ../domain/season --output domain/season --outpkg seasonmock --filename session_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PayloadFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename payload_fetcher_mock.go
