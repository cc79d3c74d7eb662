package cubees

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/cotahub/mdcota-etl/internal/etl"
	"github.com/cotahub/mdcota-etl/internal/logger"
)

const component = "Cubees"

// LambdaInvoker is the slice of the Lambda API the client uses.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
}

// Client registers quota owners with the Cubees customer-registry Lambda.
// Invocations are asynchronous: the registry processes the payload on its own
// time and the ETL does not wait for confirmation.
type Client struct {
	lambda       LambdaInvoker
	functionName string
	log          *logger.Logger
}

func New(cfg aws.Config, functionName string, log *logger.Logger) *Client {
	return &Client{
		lambda:       awslambda.NewFromConfig(cfg),
		functionName: functionName,
		log:          log,
	}
}

// NewWithInvoker wires a custom invoker, used by tests.
func NewWithInvoker(invoker LambdaInvoker, functionName string, log *logger.Logger) *Client {
	return &Client{lambda: invoker, functionName: functionName, log: log}
}

func (c *Client) RegisterCustomer(ctx context.Context, quotaID int64, quotaCode string, owners []etl.Owner) error {
	if c.functionName == "" {
		return nil
	}

	payload, err := json.Marshal(BuildCustomerPayload(quotaID, quotaCode, owners))
	if err != nil {
		return fmt.Errorf("marshal customer payload: %w", err)
	}

	_, err = c.lambda.Invoke(ctx, &awslambda.InvokeInput{
		FunctionName:   aws.String(c.functionName),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("invoke customer lambda: %w", err)
	}

	c.log.Debug(component, "Customer registration dispatched: quota=%s owners=%d", quotaCode, len(owners))
	return nil
}
